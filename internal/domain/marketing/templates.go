// internal/domain/marketing/templates.go
package marketing

// Template is a canned promotional message with {{name}} placeholders
type Template struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Message   string   `json:"message"`
	Variables []string `json:"variables"`
}

// VarCustomerName is filled per recipient during a broadcast
const VarCustomerName = "customerName"

var catalogue = []Template{
	{
		ID:        "1",
		Name:      "Festival Sale",
		Message:   "🎉 Special Festival Sale! Get {{discount}}% off on all products. Valid till {{date}}. Visit us now!",
		Variables: []string{"discount", "date"},
	},
	{
		ID:        "2",
		Name:      "New Arrival",
		Message:   "🆕 New products just arrived! Check out our latest collection. Limited stock available!",
		Variables: []string{},
	},
	{
		ID:        "3",
		Name:      "Customer Appreciation",
		Message:   "Thank you {{customerName}} for being a valued customer! Here's a special {{discount}}% discount on your next purchase. Use code: {{code}}",
		Variables: []string{VarCustomerName, "discount", "code"},
	},
	{
		ID:        "4",
		Name:      "Clearance Sale",
		Message:   "🔥 Clearance Sale! Up to {{discount}}% off on selected items. Hurry, limited time offer!",
		Variables: []string{"discount"},
	},
	{
		ID:        "5",
		Name:      "Birthday Wish",
		Message:   "🎂 Happy Birthday {{customerName}}! Enjoy a special {{discount}}% discount on your birthday. Visit us today!",
		Variables: []string{VarCustomerName, "discount"},
	},
	{
		ID:        "6",
		Name:      "Low Stock Alert",
		Message:   "⏰ Limited stock available on {{productName}}. Order now before it's gone!",
		Variables: []string{"productName"},
	},
}
