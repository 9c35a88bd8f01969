package model

// UntitledProduct is the display title for products whose index payload
// carries no title.
const UntitledProduct = "(untitled)"

// Product identifies one Amazon product present in the index.
type Product struct {
	ASIN  string `json:"asin"`
	Title string `json:"title"`
}
