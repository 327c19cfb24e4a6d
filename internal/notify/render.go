package notify

import (
	"bytes"
	"html/template"

	"cosysta-be/internal/address"
)

const OrderEmailSubject = "New Order from Cosysta"

// EmailLine is one ordered product in the per-shop summary.
type EmailLine struct {
	Name        string
	UnitPrice   float64
	Quantity    int32
	WeightGrams *float64
	LineTotal   float64
}

// OrderEmailData is everything a shop owner sees about their slice of an
// order: the customer, the delivery address snapshot, their own items and
// the per-shop subtotal.
type OrderEmailData struct {
	CustomerName   string
	CustomerEmail  string
	CustomerMobile string
	Address        address.Snapshot
	Items          []EmailLine
	Subtotal       float64
}

var orderEmailTmpl = template.Must(template.New("order_email").
	Funcs(template.FuncMap{
		"deref": func(f *float64) float64 {
			if f == nil {
				return 0
			}
			return *f
		},
	}).
	Parse(`<h2>New Order Received</h2>

<h3>Customer Details</h3>
<p><strong>Name:</strong> {{.CustomerName}}</p>
<p><strong>Email:</strong> {{.CustomerEmail}}</p>
<p><strong>Mobile:</strong> {{.CustomerMobile}}</p>

<h3>Delivery Address</h3>
<p>
  Country: {{.Address.Country}}<br>
  State: {{.Address.State}}<br>
  Town/City: {{.Address.Town}}<br>
  Area: {{.Address.Area}}<br>
  Landmark: {{if .Address.Landmark}}{{.Address.Landmark}}{{else}}N/A{{end}}<br>
  Pincode: {{.Address.Pincode}}<br>
  House No: {{if .Address.HouseNo}}{{.Address.HouseNo}}{{else}}N/A{{end}}
</p>

<h3>Ordered Products</h3>
{{range .Items}}<p>
  <strong>Product Name:</strong> {{.Name}}<br>
  <strong>Product Price (per unit):</strong> ₹{{printf "%.2f" .UnitPrice}}<br>
  <strong>Quantity:</strong> {{.Quantity}}<br>
  {{if .WeightGrams}}<strong>Weight per unit:</strong> {{printf "%.0f" (deref .WeightGrams)}} g<br>
  {{end}}<strong>Total for this product:</strong> ₹{{printf "%.2f" .LineTotal}}
</p>
<hr>
{{end}}
<h3>Total Order Amount: ₹{{printf "%.2f" .Subtotal}}</h3>
`))

// RenderOrderEmail renders the per-shop HTML summary.
func RenderOrderEmail(data OrderEmailData) (string, error) {
	var buf bytes.Buffer
	if err := orderEmailTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
