package replicator

import (
	"context"
	"errors"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/client"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/model/forms"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/template"
	"github.com/google/go-cmp/cmp"
	"testing"
)

type insertCall struct {
	FormId string
	Item   forms.Item
	Index  int
}

type fakeClient struct {
	created  []forms.Info
	inserted []insertCall
	fetched  []string
	// failInsertAt is the insert call that fails, or -1
	failInsertAt int
	failCreate   bool
	failFetch    bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{failInsertAt: -1}
}

func (f *fakeClient) CreateForm(ctx context.Context, info forms.Info) (client.CreateResult, error) {
	f.created = append(f.created, info)
	if f.failCreate {
		return client.CreateResult{}, errors.New("create failed")
	}
	return client.CreateResult{Form: forms.Form{FormId: "form-1"}}, nil
}

func (f *fakeClient) InsertItem(ctx context.Context, formId string, item forms.Item, index int) (client.InsertResult, error) {
	f.inserted = append(f.inserted, insertCall{FormId: formId, Item: item, Index: index})
	if index == f.failInsertAt {
		return client.InsertResult{}, &client.ApiError{StatusCode: 400, Body: "bad item"}
	}
	return client.InsertResult{Index: index, ItemId: "new"}, nil
}

func (f *fakeClient) GetForm(ctx context.Context, formId string) (client.FetchResult, error) {
	f.fetched = append(f.fetched, formId)
	if f.failFetch {
		return client.FetchResult{}, errors.New("fetch failed")
	}
	return client.FetchResult{Form: forms.Form{FormId: formId}, Body: []byte(`{"formId":"form-1"}`)}, nil
}

func testTemplate() template.Template {
	return template.Template{
		Info: forms.Info{Title: "T", DocumentTitle: "D"},
		Items: []forms.Item{
			{"itemId": "i1", "title": "One", "questionItem": map[string]any{"question": map[string]any{"questionId": "q1", "required": true}}},
			{"itemId": "i2", "title": "Two", "textItem": map[string]any{}},
			{"itemId": "i3", "title": "Three", "pageBreakItem": map[string]any{}},
		},
	}
}

func TestReplicateInsertsItemsInOrder(t *testing.T) {
	fake := newFakeClient()

	result, err := Replicator{Client: fake}.Replicate(context.Background(), testTemplate())

	if err != nil {
		t.Fatalf("Should not have returned an error: %v", err)
	}

	if diff := cmp.Diff([]forms.Info{{Title: "T", DocumentTitle: "D"}}, fake.created); diff != "" {
		t.Fatalf("unexpected create calls (-want +got):\n%s", diff)
	}

	if len(fake.inserted) != 3 {
		t.Fatalf("expected 3 insert calls, got %d", len(fake.inserted))
	}

	for index, call := range fake.inserted {
		if call.Index != index {
			t.Fatalf("insert %d used index %d", index, call.Index)
		}

		if call.FormId != "form-1" {
			t.Fatalf("insert %d used form %s", index, call.FormId)
		}

		if _, ok := call.Item[template.ItemIdField]; ok {
			t.Fatalf("insert %d sent an itemId", index)
		}
	}

	if diff := cmp.Diff([]string{"One", "Two", "Three"}, []string{fake.inserted[0].Item.Title(), fake.inserted[1].Item.Title(), fake.inserted[2].Item.Title()}); diff != "" {
		t.Fatalf("items were not sent in template order (-want +got):\n%s", diff)
	}

	question := fake.inserted[0].Item["questionItem"].(map[string]any)["question"].(map[string]any)
	if _, ok := question[template.QuestionIdField]; ok {
		t.Fatalf("the questionId should not have been sent")
	}

	if diff := cmp.Diff([]string{"form-1"}, fake.fetched); diff != "" {
		t.Fatalf("unexpected fetch calls (-want +got):\n%s", diff)
	}

	if len(result.Inserted) != 3 || string(result.Snapshot.Body) != `{"formId":"form-1"}` {
		t.Fatalf("unexpected result %v", result)
	}
}

func TestReplicateEmptyTemplate(t *testing.T) {
	fake := newFakeClient()
	tmpl := template.Template{Info: forms.Info{Title: "T"}}

	if _, err := (Replicator{Client: fake}).Replicate(context.Background(), tmpl); err != nil {
		t.Fatalf("Should not have returned an error: %v", err)
	}

	if len(fake.inserted) != 0 || len(fake.fetched) != 1 {
		t.Fatalf("expected no inserts and a single fetch")
	}
}

func TestReplicateCreateFailure(t *testing.T) {
	fake := newFakeClient()
	fake.failCreate = true

	_, err := Replicator{Client: fake}.Replicate(context.Background(), testTemplate())

	var remoteError *RemoteError
	if !errors.As(err, &remoteError) {
		t.Fatalf("expected a RemoteError, got %v", err)
	}

	if remoteError.Step != CreateFormStep || remoteError.Partial() {
		t.Fatalf("expected a non partial create failure, got %v", remoteError)
	}

	if len(fake.inserted) != 0 || len(fake.fetched) != 0 {
		t.Fatalf("no further calls should be made after the create fails")
	}
}

func TestReplicateInsertFailureStopsReplay(t *testing.T) {
	fake := newFakeClient()
	fake.failInsertAt = 1

	result, err := Replicator{Client: fake}.Replicate(context.Background(), testTemplate())

	var remoteError *RemoteError
	if !errors.As(err, &remoteError) {
		t.Fatalf("expected a RemoteError, got %v", err)
	}

	if remoteError.Step != InsertItemStep || remoteError.ItemIndex != 1 || remoteError.ItemsInserted != 1 || !remoteError.Partial() {
		t.Fatalf("unexpected error details %+v", remoteError)
	}

	var apiError *client.ApiError
	if !errors.As(err, &apiError) {
		t.Fatalf("the client error should be wrapped")
	}

	if len(fake.inserted) != 2 || len(fake.fetched) != 0 {
		t.Fatalf("replay should stop at the failed item without fetching the form")
	}

	if len(result.Inserted) != 1 {
		t.Fatalf("the successful inserts should be reported, got %d", len(result.Inserted))
	}
}

func TestReplicateFetchFailure(t *testing.T) {
	fake := newFakeClient()
	fake.failFetch = true

	_, err := Replicator{Client: fake}.Replicate(context.Background(), testTemplate())

	var remoteError *RemoteError
	if !errors.As(err, &remoteError) {
		t.Fatalf("expected a RemoteError, got %v", err)
	}

	if remoteError.Step != FetchFormStep || remoteError.ItemsInserted != 3 || remoteError.FormId != "form-1" {
		t.Fatalf("unexpected error details %+v", remoteError)
	}
}
