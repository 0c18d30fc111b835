package forms

// Item is one question or content block. Items are kept as generic maps so that any field the
// template carries is passed through to the remote service untouched.
type Item map[string]any

func (i Item) Title() string {
	title, _ := i["title"].(string)
	return title
}

func (i Item) ItemId() string {
	id, _ := i["itemId"].(string)
	return id
}
