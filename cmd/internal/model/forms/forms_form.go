package forms

// Info is the title block of a form. Only the fields the create call accepts are modelled,
// so marshalling an Info produces exactly the create payload.
type Info struct {
	Title         string `json:"title" yaml:"title"`
	DocumentTitle string `json:"documentTitle" yaml:"documentTitle"`
}

type CreateFormRequest struct {
	Info Info `json:"info"`
}

// Form is the subset of the remote form resource the tool reads. The full document is
// persisted from the raw response body, never from this struct.
type Form struct {
	FormId       string `json:"formId"`
	Info         Info   `json:"info"`
	RevisionId   string `json:"revisionId,omitempty"`
	ResponderUri string `json:"responderUri,omitempty"`
	Items        []Item `json:"items,omitempty"`
}

func (f Form) EditUri() string {
	return "https://docs.google.com/forms/d/" + f.FormId + "/edit"
}
