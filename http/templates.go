package http

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

const pageHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Relocation Calculator</title>
<style>
body { font-family: sans-serif; background: #f7fafc; display: flex; justify-content: center; padding: 3rem 1rem; }
main { background: #fff; max-width: 28rem; width: 100%; padding: 1.5rem; border-radius: .5rem; box-shadow: 0 4px 12px rgba(0,0,0,.1); }
label { display: block; margin-top: 1rem; font-weight: 600; }
input { width: 100%; font-size: 1.1rem; padding: .5rem; box-sizing: border-box; }
.invalid input { border-color: #e53e3e; }
.error { color: #e53e3e; font-size: .9rem; }
.notice { padding: .75rem; border-radius: .375rem; margin: 1rem 0; }
.notice.info { background: #ebf8ff; }
.notice.error { background: #fff5f5; }
.result { margin-top: 1.5rem; background: #edf2f7; padding: 1rem; border-radius: .375rem; }
button { margin-top: 1rem; }
</style>
</head>
<body>
<main>
<h1>Relocation Calculator</h1>
<p><a href="/?variant={{.OtherVariant}}">Switch to {{.OtherVariant}} discount form</a></p>
{{with .Notice}}
<form class="notice {{.Kind}}" method="post" action="/notice/dismiss">
<input type="hidden" name="variant" value="{{$.Variant}}">
<span>{{.Text}}</span>
<button type="submit" aria-label="Dismiss">&times;</button>
</form>
{{end}}
<form method="post" action="/" novalidate>
<input type="hidden" name="variant" value="{{.Variant}}">
{{range .Fields}}
<div class="{{if .Error}}invalid{{end}}">
<label for="{{.Name}}">{{.Label}}</label>
<input id="{{.Name}}" name="{{.Name}}" type="number" step="any" value="{{.Value}}">
{{if .Error}}<div class="error">{{.Error}}</div>{{end}}
</div>
{{end}}
<button type="submit">Calculate</button>
</form>
<form method="post" action="/reset">
<input type="hidden" name="variant" value="{{.Variant}}">
<button type="submit">Reset</button>
</form>
{{with .Result}}
<section class="result">
<h3>Calculation Result</h3>
<p><strong>Guest Refund:</strong> {{.GuestRefund}}</p>
<p><strong>Property Invoice:</strong> {{.PropertyInvoice}}</p>
<details>
<summary>Breakdown</summary>
<p>Original out of pocket: {{.OriginalOutOfPocket}}</p>
<p>Alternative out of pocket: {{.AlternativeOutOfPocket}}</p>
<p>Difference: {{.Difference}}</p>
<p>Invoice policy: {{.Policy}}</p>
</details>
<form method="post" action="/copy">
<input type="hidden" name="variant" value="{{$.Variant}}">
<button type="submit">Copy result</button>
</form>
</section>
{{end}}
</main>
</body>
</html>
`
