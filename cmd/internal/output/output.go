package output

import (
	"fmt"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/model/forms"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/strutil"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/template"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/writers"
	"io"
)

// WriteSnapshot saves the form document exactly as the service returned it. When console is set,
// or there is no destination, the document is also printed to stdout.
func WriteSnapshot(snapshot []byte, dest string, console bool) error {
	if dest != "" {
		if err := writers.NewFileWriter(dest, 0644).Write(snapshot); err != nil {
			return err
		}
	}

	if console || dest == "" {
		return writers.ConsoleWriter{}.Write(snapshot)
	}

	return nil
}

func PrintSummary(out io.Writer, form forms.Form) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "The form has ID: "+form.FormId)
	fmt.Fprintln(out, "View at: "+form.ResponderUri)
	fmt.Fprintln(out, "Edit via: "+form.EditUri())
}

// PrintDryRun lists the items that would be created, in insertion order.
func PrintDryRun(out io.Writer, tmpl template.Template) {
	fmt.Fprintln(out, "Form: "+tmpl.Info.Title+" ("+strutil.DefaultIfEmpty(tmpl.Info.DocumentTitle, tmpl.Info.Title)+")")
	for index, item := range tmpl.StrippedItems() {
		fmt.Fprintf(out, "%d\t%s\t%s\n", index, template.Kind(item), item.Title())
	}
}
