package template

import (
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/model/forms"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	k8sslices "k8s.io/utils/strings/slices"
)

const (
	ItemIdField     = "itemId"
	QuestionIdField = "questionId"
)

// ItemKinds are the mutually exclusive item variants a form item can hold.
var ItemKinds = []string{
	"questionItem",
	"questionGroupItem",
	"pageBreakItem",
	"textItem",
	"imageItem",
	"videoItem",
}

// Kind returns the variant key of the item, or "unknown" if the item holds none of the known variants.
func Kind(item forms.Item) string {
	keys := maps.Keys(item)
	slices.Sort(keys)

	for _, key := range keys {
		if k8sslices.Contains(ItemKinds, key) {
			return key
		}
	}

	return "unknown"
}

// Strip returns a copy of the item without the identifiers that belong to the form the template
// was captured from. The remote service rejects those identifiers on a new form. The input item
// is not modified; nested maps that are changed are copied too.
func Strip(item forms.Item) forms.Item {
	stripped := maps.Clone(item)
	delete(stripped, ItemIdField)

	if questionItem, ok := stripped["questionItem"].(map[string]any); ok {
		questionItem = maps.Clone(questionItem)
		if question, ok := questionItem["question"].(map[string]any); ok {
			questionItem["question"] = withoutQuestionId(question)
		}
		stripped["questionItem"] = questionItem
	}

	if groupItem, ok := stripped["questionGroupItem"].(map[string]any); ok {
		groupItem = maps.Clone(groupItem)
		if questions, ok := groupItem["questions"].([]any); ok {
			copied := make([]any, len(questions))
			for i, question := range questions {
				if questionMap, ok := question.(map[string]any); ok {
					copied[i] = withoutQuestionId(questionMap)
				} else {
					copied[i] = question
				}
			}
			groupItem["questions"] = copied
		}
		stripped["questionGroupItem"] = groupItem
	}

	return stripped
}

func withoutQuestionId(question map[string]any) map[string]any {
	copied := maps.Clone(question)
	delete(copied, QuestionIdField)
	return copied
}
