package classifier_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/JaimeStill/taxon/internal/classifier"
	"github.com/JaimeStill/taxon/internal/prompts"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func requests(n int) []classifier.Request {
	out := make([]classifier.Request, n)
	for i := range out {
		out[i] = classifier.Request{MappingID: i + 1, FieldDescription: fmt.Sprintf("desc %d", i+1)}
	}
	return out
}

func config(t *testing.T, cfg classifier.Config) classifier.Config {
	t.Helper()
	require.NoError(t, cfg.Finalize(nil))
	return cfg
}

func TestConfigDefaults(t *testing.T) {
	cfg := config(t, classifier.Config{})

	assert.Equal(t, classifier.ProviderMock, cfg.Provider)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 4000, cfg.MaxTokens)
	assert.InDelta(t, 0.7, *cfg.Temperature, 1e-9)
	assert.Equal(t, 2*time.Minute, cfg.TimeoutDuration())
}

func TestConfigExplicitZeroTemperature(t *testing.T) {
	zero := 0.0
	cfg := config(t, classifier.Config{Temperature: &zero})
	assert.Zero(t, *cfg.Temperature)
}

func TestConfigValidation(t *testing.T) {
	hot := 2.5
	tests := []struct {
		name string
		cfg  classifier.Config
	}{
		{"unknown provider", classifier.Config{Provider: "bard"}},
		{"http without endpoint", classifier.Config{Provider: classifier.ProviderHTTP}},
		{"openai without token", classifier.Config{Provider: classifier.ProviderOpenAI}},
		{"temperature", classifier.Config{Temperature: &hot}},
		{"max tokens", classifier.Config{MaxTokens: 9000}},
		{"timeout", classifier.Config{Timeout: "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Finalize(nil))
		})
	}
}

func TestConfigEnv(t *testing.T) {
	t.Setenv("TEST_CLASSIFIER_PROVIDER", "http")
	t.Setenv("TEST_CLASSIFIER_ENDPOINT", "http://classifier.local/v1/classify")
	t.Setenv("TEST_CLASSIFIER_TEMPERATURE", "0")

	cfg := classifier.Config{}
	err := cfg.Finalize(&classifier.Env{
		Provider:    "TEST_CLASSIFIER_PROVIDER",
		Endpoint:    "TEST_CLASSIFIER_ENDPOINT",
		Temperature: "TEST_CLASSIFIER_TEMPERATURE",
	})
	require.NoError(t, err)
	assert.Equal(t, classifier.ProviderHTTP, cfg.Provider)
	assert.Zero(t, *cfg.Temperature)
}

func TestMockIsDeterministic(t *testing.T) {
	m := classifier.NewMock(false)
	reqs := []classifier.Request{
		{MappingID: 1, FieldDescription: "加密卡号"},
		{MappingID: 2, FieldDescription: "汇总-下午交易金额(12-17点)"},
		{MappingID: 3, FieldDescription: "something unusual"},
	}

	a, err := m.Classify(context.Background(), reqs)
	require.NoError(t, err)
	b, _ := m.Classify(context.Background(), reqs)
	assert.Equal(t, a, b)

	assert.Equal(t, "银行卡号", a[0].Level4)
	assert.Equal(t, "high", a[0].Sensitivity)
	assert.Equal(t, "交易金额", a[1].Level4)
	assert.NotEmpty(t, a[2].Level1)
	for i, v := range a {
		assert.Equal(t, reqs[i].MappingID, v.MappingID)
	}
}

func TestMockReverse(t *testing.T) {
	out, err := classifier.NewMock(true).Classify(context.Background(), requests(3))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1}, []int{out[0].MappingID, out[1].MappingID, out[2].MappingID})
}

func TestHTTPClassifier(t *testing.T) {
	var got struct {
		Items []classifier.Request `json:"items"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"verdicts":[{"mappingId":2,"level1":"x","sensitivityClassification":"low"},{"mappingId":1,"level1":"y"}]}`))
	}))
	defer srv.Close()

	c := classifier.NewHTTP(srv.Client(), srv.URL, "secret")
	out, err := c.Classify(context.Background(), requests(2))
	require.NoError(t, err)

	assert.Equal(t, requests(2), got.Items)
	require.Len(t, out, 2)
	assert.Equal(t, 2, out[0].MappingID)
	assert.Equal(t, "low", out[0].Sensitivity)
}

func TestHTTPClassifierErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"server error", http.StatusBadGateway, "", classifier.ErrUnavailable},
		{"rate limited", http.StatusTooManyRequests, "", classifier.ErrUnavailable},
		{"bad request", http.StatusBadRequest, "nope", classifier.ErrInvalidResponse},
		{"garbage", http.StatusOK, "<html>", classifier.ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := classifier.NewHTTP(srv.Client(), srv.URL, "").Classify(context.Background(), requests(1))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("transport", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := classifier.NewHTTP(nil, url, "").Classify(context.Background(), requests(1))
		assert.ErrorIs(t, err, classifier.ErrUnavailable)
		assert.True(t, classifier.IsRetryable(err))
	})
}

type fakeModel struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
}

func (f *fakeModel) GenerateContent(ctx context.Context, msgs []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, m := range msgs {
		for _, p := range m.Parts {
			if tc, ok := p.(llms.TextContent); ok {
				f.prompts = append(f.prompts, tc.Text)
			}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.reply}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, opts...)
}

func TestLLMClassifier(t *testing.T) {
	ps := prompts.New(discard())
	model := &fakeModel{reply: "```json\n{\"verdicts\":[{\"mappingId\":1,\"level1\":\"客户信息\",\"sensitivityClassification\":\"high\"}]}\n```"}

	c := classifier.NewLLM(model, ps, config(t, classifier.Config{}))
	out, err := c.Classify(context.Background(), []classifier.Request{{MappingID: 1, FieldDescription: "客户手机号"}})
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, "客户信息", out[0].Level1)

	require.Len(t, model.prompts, 1)
	assert.Contains(t, model.prompts[0], "客户手机号")
	assert.Contains(t, model.prompts[0], `"mappingId": 1`)
}

func TestLLMClassifierErrors(t *testing.T) {
	ps := prompts.New(discard())
	cfg := config(t, classifier.Config{})

	_, err := classifier.NewLLM(&fakeModel{err: errors.New("connection reset")}, ps, cfg).
		Classify(context.Background(), requests(1))
	assert.ErrorIs(t, err, classifier.ErrUnavailable)

	_, err = classifier.NewLLM(&fakeModel{reply: "I cannot help with that"}, ps, cfg).
		Classify(context.Background(), requests(1))
	assert.ErrorIs(t, err, classifier.ErrInvalidResponse)
}

func TestNewProvider(t *testing.T) {
	c, err := classifier.New(config(t, classifier.Config{}), nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &classifier.Mock{}, c)

	_, err = classifier.New(classifier.Config{Provider: "bard"}, nil, nil)
	assert.Error(t, err)
}

func TestBatches(t *testing.T) {
	b := classifier.Batches(requests(5), 2)
	require.Len(t, b, 3)
	assert.Len(t, b[0], 2)
	assert.Len(t, b[2], 1)
	assert.Equal(t, 5, b[2][0].MappingID)

	assert.Empty(t, classifier.Batches(nil, 10))
}

func collect() (classifier.Deliver, func() map[int][]classifier.Verdict) {
	var mu sync.Mutex
	got := map[int][]classifier.Verdict{}
	return func(batch int, vs []classifier.Verdict) {
			mu.Lock()
			defer mu.Unlock()
			got[batch] = vs
		}, func() map[int][]classifier.Verdict {
			mu.Lock()
			defer mu.Unlock()
			return got
		}
}

func TestDispatchDeliversEveryBatch(t *testing.T) {
	cfg := config(t, classifier.Config{BatchSize: 3, Concurrency: 2})
	d := classifier.NewDispatcher(classifier.NewMock(true), cfg, discard())

	deliver, got := collect()
	require.NoError(t, d.Dispatch(context.Background(), requests(10), deliver))

	delivered := got()
	require.Len(t, delivered, 4)

	var ids []int
	for _, vs := range delivered {
		for _, v := range vs {
			ids = append(ids, v.MappingID)
		}
	}
	slices.Sort(ids)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, ids)
}

func TestDispatchTimeoutWithholdsVerdicts(t *testing.T) {
	cfg := config(t, classifier.Config{BatchSize: 2, Timeout: "50ms"})

	slow := classifier.Func(func(ctx context.Context, reqs []classifier.Request) ([]classifier.Verdict, error) {
		if reqs[0].MappingID == 3 {
			time.Sleep(200 * time.Millisecond)
		}
		return classifier.NewMock(false).Classify(context.Background(), reqs)
	})

	deliver, got := collect()
	err := classifier.NewDispatcher(slow, cfg, discard()).Dispatch(context.Background(), requests(4), deliver)

	require.Error(t, err)
	assert.ErrorIs(t, err, classifier.ErrUnavailable)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	require.Len(t, merr.Errors, 1)

	var berr *classifier.BatchError
	require.ErrorAs(t, merr.Errors[0], &berr)
	assert.Equal(t, []int{3, 4}, berr.IDs)

	delivered := got()
	assert.Len(t, delivered, 1, "only the batch that finished in time is delivered")
	assert.Contains(t, delivered, 0)
}

func TestDispatchCollectsAllFailures(t *testing.T) {
	cfg := config(t, classifier.Config{BatchSize: 1, Concurrency: 1})

	failing := classifier.Func(func(ctx context.Context, reqs []classifier.Request) ([]classifier.Verdict, error) {
		if reqs[0].MappingID%2 == 0 {
			return nil, fmt.Errorf("%w: refused", classifier.ErrInvalidResponse)
		}
		return classifier.NewMock(false).Classify(ctx, reqs)
	})

	deliver, got := collect()
	err := classifier.NewDispatcher(failing, cfg, discard()).Dispatch(context.Background(), requests(4), deliver)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)
	assert.ErrorIs(t, err, classifier.ErrInvalidResponse)
	assert.False(t, classifier.IsRetryable(merr.Errors[0]))
	assert.Len(t, got(), 2)
}

func TestDispatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := config(t, classifier.Config{BatchSize: 2})
	deliver, got := collect()
	err := classifier.NewDispatcher(classifier.NewMock(false), cfg, discard()).Dispatch(ctx, requests(4), deliver)

	assert.ErrorIs(t, err, classifier.ErrUnavailable)
	assert.Empty(t, got())
}

func TestMapHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, classifier.MapHTTPStatus(fmt.Errorf("x: %w", classifier.ErrUnavailable)))
	assert.Equal(t, http.StatusBadGateway, classifier.MapHTTPStatus(classifier.ErrInvalidResponse))
	assert.Equal(t, http.StatusInternalServerError, classifier.MapHTTPStatus(errors.New("x")))
	assert.True(t, strings.Contains(classifier.ErrUnavailable.Error(), "unavailable"))
}
