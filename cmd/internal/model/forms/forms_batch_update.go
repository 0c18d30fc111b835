package forms

type Location struct {
	Index int `json:"index"`
}

type CreateItemRequest struct {
	Item     Item     `json:"item"`
	Location Location `json:"location"`
}

type Request struct {
	CreateItem *CreateItemRequest `json:"createItem,omitempty"`
}

type BatchUpdateRequest struct {
	Requests []Request `json:"requests"`
}

type CreateItemResponse struct {
	ItemId     string   `json:"itemId"`
	QuestionId []string `json:"questionId,omitempty"`
}

type Response struct {
	CreateItem *CreateItemResponse `json:"createItem,omitempty"`
}

type WriteControl struct {
	RequiredRevisionId string `json:"requiredRevisionId,omitempty"`
	TargetRevisionId   string `json:"targetRevisionId,omitempty"`
}

type BatchUpdateResponse struct {
	Replies      []Response    `json:"replies"`
	WriteControl *WriteControl `json:"writeControl,omitempty"`
}

// NewCreateItemRequest builds a batch update holding a single createItem request at the given index.
func NewCreateItemRequest(item Item, index int) BatchUpdateRequest {
	return BatchUpdateRequest{
		Requests: []Request{
			{
				CreateItem: &CreateItemRequest{
					Item:     item,
					Location: Location{Index: index},
				},
			},
		},
	}
}
