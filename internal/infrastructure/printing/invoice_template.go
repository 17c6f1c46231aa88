package printing

// invoiceTemplate is the built-in sales invoice layout
const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Invoice {{.Number}}</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 11px; color: #222; }
  h1 { font-size: 22px; margin: 0 0 4px 0; }
  .muted { color: #777; }
  .header { display: flex; justify-content: space-between; margin-bottom: 24px; }
  .party { margin-bottom: 20px; }
  table.lines { width: 100%; border-collapse: collapse; }
  table.lines th { background: #E6F3FF; text-align: left; padding: 6px; }
  table.lines td { border-bottom: 1px solid #eee; padding: 6px; }
  .num { text-align: right; white-space: nowrap; }
  table.totals { margin-left: auto; margin-top: 16px; }
  table.totals td { padding: 3px 6px; }
  .grand td { font-weight: bold; border-top: 2px solid #222; }
  .status { text-transform: uppercase; font-weight: bold; }
  .notes { margin-top: 24px; white-space: pre-wrap; }
</style>
</head>
<body>
<div class="header">
  <div>
    <h1>Invoice</h1>
    <div>{{.Number}}</div>
    <div class="status">{{statusLabel .Status}}</div>
  </div>
  <div>
    <div><span class="muted">Issue date:</span> {{formatDate .IssueDate}}</div>
    <div><span class="muted">Due date:</span> {{formatDate .DueDate}}</div>
    <div><span class="muted">Currency:</span> {{upper .Currency}}</div>
  </div>
</div>
<div class="party">
  <div class="muted">Bill to</div>
  <div><strong>{{.Customer.Name}}</strong>{{if notEmpty .Customer.Code}} ({{.Customer.Code}}){{end}}</div>
  {{if notEmpty .Customer.Address}}<div>{{.Customer.Address}}</div>{{end}}
  {{if or (notEmpty .Customer.City) (notEmpty .Customer.Country)}}<div>{{.Customer.City}}{{if and (notEmpty .Customer.City) (notEmpty .Customer.Country)}}, {{end}}{{.Customer.Country}}</div>{{end}}
  {{if notEmpty .Customer.Email}}<div>{{.Customer.Email}}</div>{{end}}
  {{if notEmpty .Customer.TaxID}}<div><span class="muted">Tax ID:</span> {{.Customer.TaxID}}</div>{{end}}
</div>
<table class="lines">
  <thead>
    <tr><th>#</th><th>Description</th><th class="num">Qty</th><th class="num">Unit price</th><th class="num">Tax</th><th class="num">Amount</th></tr>
  </thead>
  <tbody>
  {{- range $i, $line := .Lines}}
    <tr>
      <td>{{add $i 1}}</td>
      <td>{{$line.Description}}</td>
      <td class="num">{{formatDecimal $line.Quantity 2}}</td>
      <td class="num">{{formatMoney $.Currency $line.UnitPrice}}</td>
      <td class="num">{{formatPercent $line.TaxRate}}</td>
      <td class="num">{{formatMoney $.Currency $line.LineTotal}}</td>
    </tr>
  {{- end}}
  </tbody>
</table>
<table class="totals">
  <tr><td>Subtotal</td><td class="num">{{formatMoney .Currency .Subtotal}}</td></tr>
  <tr><td>Tax</td><td class="num">{{formatMoney .Currency .TaxTotal}}</td></tr>
  <tr class="grand"><td>Total</td><td class="num">{{formatMoney .Currency .Total}}</td></tr>
  <tr><td>Paid</td><td class="num">{{formatMoney .Currency .Paid}}</td></tr>
  <tr><td>Balance due</td><td class="num">{{formatMoney .Currency .Due}}</td></tr>
</table>
{{if notEmpty .Notes}}<div class="notes">{{.Notes}}</div>{{end}}
</body>
</html>
`
