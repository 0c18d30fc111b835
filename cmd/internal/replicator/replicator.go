package replicator

import (
	"context"
	"fmt"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/client"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/strutil"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/template"
	"go.uber.org/zap"
)

type Step string

const (
	CreateFormStep Step = "create form"
	InsertItemStep Step = "insert item"
	FetchFormStep  Step = "fetch form"
)

// RemoteError identifies the remote call that failed, and how much of the form exists remotely.
type RemoteError struct {
	Step Step
	// FormId is empty if the form was never created.
	FormId string
	// ItemIndex is the template index of the item being inserted, or -1 for other steps.
	ItemIndex     int
	ItemsInserted int
	Err           error
}

func (e *RemoteError) Error() string {
	if e.Step == InsertItemStep {
		return fmt.Sprintf("failed to %s %d of form %s (%d items inserted): %v", e.Step, e.ItemIndex, e.FormId, e.ItemsInserted, e.Err)
	}

	if e.FormId != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Step, e.FormId, e.Err)
	}

	return fmt.Sprintf("failed to %s: %v", e.Step, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Partial reports whether a remote form was left behind by the failed run.
func (e *RemoteError) Partial() bool {
	return e.FormId != ""
}

type Result struct {
	Created  client.CreateResult
	Inserted []client.InsertResult
	Snapshot client.FetchResult
}

type Replicator struct {
	Client client.FormsClient
}

// Replicate creates a new form from the template, inserting items one at a time in template order,
// and reads the finished form back. Nothing is retried or rolled back here.
func (r Replicator) Replicate(ctx context.Context, tmpl template.Template) (Result, error) {
	result := Result{}

	created, err := r.Client.CreateForm(ctx, tmpl.Info)

	if err != nil {
		return result, &RemoteError{Step: CreateFormStep, ItemIndex: -1, Err: err}
	}

	result.Created = created
	formId := created.Form.FormId

	zap.L().Info("Created form " + formId)

	for index, item := range tmpl.StrippedItems() {
		zap.L().Info("Adding item "+strutil.DefaultIfEmpty(item.Title(), "(untitled)"),
			zap.Int("index", index),
			zap.String("kind", template.Kind(item)))

		inserted, err := r.Client.InsertItem(ctx, formId, item, index)

		if err != nil {
			return result, &RemoteError{
				Step:          InsertItemStep,
				FormId:        formId,
				ItemIndex:     index,
				ItemsInserted: len(result.Inserted),
				Err:           err,
			}
		}

		result.Inserted = append(result.Inserted, inserted)
	}

	snapshot, err := r.Client.GetForm(ctx, formId)

	if err != nil {
		return result, &RemoteError{
			Step:          FetchFormStep,
			FormId:        formId,
			ItemIndex:     -1,
			ItemsInserted: len(result.Inserted),
			Err:           err,
		}
	}

	result.Snapshot = snapshot

	return result, nil
}
