package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/model/forms"
	"github.com/OctopusSolutionsEngineering/FormReplicator/cmd/internal/strutil"
	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultUrl = "https://forms.googleapis.com"

// FormsClient is the set of remote calls needed to replicate a form.
type FormsClient interface {
	CreateForm(ctx context.Context, info forms.Info) (CreateResult, error)
	InsertItem(ctx context.Context, formId string, item forms.Item, index int) (InsertResult, error)
	GetForm(ctx context.Context, formId string) (FetchResult, error)
}

type CreateResult struct {
	Form forms.Form
}

type InsertResult struct {
	Index      int
	ItemId     string
	QuestionId []string
}

// FetchResult holds the decoded form alongside the exact bytes returned by the service.
type FetchResult struct {
	Form forms.Form
	Body []byte
}

// ApiError is returned when the service responds with a non-2xx status code.
type ApiError struct {
	Method     string
	Url        string
	StatusCode int
	Body       string
}

func (e *ApiError) Error() string {
	return e.Method + " " + e.Url + " failed. Status code was " + fmt.Sprint(e.StatusCode) + " with body " + e.Body
}

// Retryable reports whether repeating the same request could succeed.
func (e *ApiError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type FormsApiClient struct {
	Url string
	// Token is the credential attached to every request. It is never refreshed by the client.
	Token      *oauth2.Token
	HttpClient *http.Client
	// RetryAttempts applies to read-only calls. Values below 1 mean a single attempt.
	RetryAttempts uint
	RetryDelay    time.Duration
}

func (o *FormsApiClient) baseUrl() string {
	return strings.TrimSuffix(strutil.DefaultIfEmpty(o.Url, DefaultUrl), "/") + "/v1/forms"
}

func (o *FormsApiClient) httpClient() *http.Client {
	if o.HttpClient == nil {
		return http.DefaultClient
	}

	return o.HttpClient
}

func (o *FormsApiClient) newRequest(ctx context.Context, method string, requestURL string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)

		if err != nil {
			return nil, err
		}

		reader = bytes.NewReader(bodyJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)

	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	req.Header.Set("Accept", "application/json")

	if o.Token != nil {
		o.Token.SetAuthHeader(req)
	}

	return req, nil
}

// do sends the request and returns the response body of a successful call.
func (o *FormsApiClient) do(req *http.Request) (body []byte, funcErr error) {
	zap.L().Debug(req.Method + " " + req.URL.String())

	res, err := o.httpClient().Do(req)

	if err != nil {
		return nil, err
	}

	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			funcErr = errors.Join(funcErr, err)
		}
	}(res.Body)

	body, err = io.ReadAll(res.Body)

	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &ApiError{
			Method:     req.Method,
			Url:        req.URL.String(),
			StatusCode: res.StatusCode,
			Body:       string(body),
		}
	}

	return body, nil
}

// CreateForm creates an empty form with the supplied title and document title.
func (o *FormsApiClient) CreateForm(ctx context.Context, info forms.Info) (CreateResult, error) {
	req, err := o.newRequest(ctx, http.MethodPost, o.baseUrl(), forms.CreateFormRequest{Info: info})

	if err != nil {
		return CreateResult{}, err
	}

	body, err := o.do(req)

	if err != nil {
		return CreateResult{}, err
	}

	form := forms.Form{}
	if err := json.Unmarshal(body, &form); err != nil {
		return CreateResult{}, err
	}

	if form.FormId == "" {
		return CreateResult{}, errors.New("the create form response did not include a formId")
	}

	return CreateResult{Form: form}, nil
}

// InsertItem adds a single item to the form at the given index.
func (o *FormsApiClient) InsertItem(ctx context.Context, formId string, item forms.Item, index int) (InsertResult, error) {
	requestURL := o.baseUrl() + "/" + url.PathEscape(formId) + ":batchUpdate"

	req, err := o.newRequest(ctx, http.MethodPost, requestURL, forms.NewCreateItemRequest(item, index))

	if err != nil {
		return InsertResult{}, err
	}

	body, err := o.do(req)

	if err != nil {
		return InsertResult{}, err
	}

	response := forms.BatchUpdateResponse{}
	if err := json.Unmarshal(body, &response); err != nil {
		return InsertResult{}, err
	}

	result := InsertResult{Index: index}
	if len(response.Replies) != 0 && response.Replies[0].CreateItem != nil {
		result.ItemId = response.Replies[0].CreateItem.ItemId
		result.QuestionId = response.Replies[0].CreateItem.QuestionId
	}

	return result, nil
}

// GetForm reads the complete form. This call is idempotent, so it is retried on transient failures.
func (o *FormsApiClient) GetForm(ctx context.Context, formId string) (FetchResult, error) {
	requestURL := o.baseUrl() + "/" + url.PathEscape(formId)

	attempts := o.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := o.RetryDelay
	if delay == 0 {
		delay = time.Second
	}

	return retry.DoWithData(func() (FetchResult, error) {
		req, err := o.newRequest(ctx, http.MethodGet, requestURL, nil)

		if err != nil {
			return FetchResult{}, err
		}

		body, err := o.do(req)

		if err != nil {
			return FetchResult{}, err
		}

		form := forms.Form{}
		if err := json.Unmarshal(body, &form); err != nil {
			return FetchResult{}, err
		}

		return FetchResult{Form: form, Body: body}, nil
	},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			zap.L().Warn("Retrying form read", zap.Uint("attempt", n+1), zap.Error(err))
		}))
}

func isRetryable(err error) bool {
	var apiError *ApiError
	if errors.As(err, &apiError) {
		return apiError.Retryable()
	}

	// transport failures surface as url errors
	var urlError *url.Error
	if errors.As(err, &urlError) {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}

	return false
}
