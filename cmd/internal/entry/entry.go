package entry

import (
	"context"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/args"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/auth"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/client"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/hash"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/output"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/replicator"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/template"
	"go.uber.org/zap"
	"net/http"
	"os"
)

// Entry loads the template, obtains credentials, replicates the form and saves the snapshot.
// The template is loaded first so a missing or malformed template fails before any network call.
// Failed API calls are returned as *replicator.RemoteError, and the snapshot is only written when
// every call succeeded.
func Entry(ctx context.Context, parseArgs args.Arguments, authorizer auth.Authorizer) (*replicator.Result, error) {
	tmpl, err := template.Load(parseArgs.Template)

	if err != nil {
		return nil, err
	}

	zap.L().Info("Loaded template "+parseArgs.Template,
		zap.Int("items", len(tmpl.Items)),
		zap.String("title", tmpl.Info.Title))

	if parseArgs.DryRun {
		output.PrintDryRun(os.Stdout, tmpl)
		return nil, nil
	}

	if authorizer == nil {
		authorizer = auth.LocalServerFlow{Timeout: parseArgs.AuthTimeout}
	}

	token, err := auth.Acquire(ctx, auth.Options{
		CredentialsFile: parseArgs.Credentials,
		TokenFile:       parseArgs.Token,
		Scopes:          parseArgs.Scopes,
		Authorizer:      authorizer,
	})

	if err != nil {
		return nil, err
	}

	formsClient := &client.FormsApiClient{
		Url:           parseArgs.Url,
		Token:         token,
		HttpClient:    &http.Client{Timeout: parseArgs.Timeout},
		RetryAttempts: parseArgs.RetryAttempts,
	}

	result, err := replicator.Replicator{Client: formsClient}.Replicate(ctx, tmpl)

	if err != nil {
		return &result, err
	}

	if err := output.WriteSnapshot(result.Snapshot.Body, parseArgs.Output, parseArgs.Console); err != nil {
		return &result, err
	}

	zap.L().Info("Saved form "+result.Snapshot.Form.FormId+" to "+parseArgs.Output,
		zap.String("fingerprint", hash.Fingerprint(result.Snapshot.Body)))

	return &result, nil
}
