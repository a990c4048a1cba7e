package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/cmsadmin-go/internal/core/domain"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestNormalize_TransportErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want *domain.Failure
	}{
		{"deadline", context.DeadlineExceeded, domain.ErrTimeout},
		{"wrapped deadline", fmt.Errorf("get: %w", context.DeadlineExceeded), domain.ErrTimeout},
		{"net timeout", timeoutErr{}, domain.ErrTimeout},
		{"canceled", context.Canceled, domain.ErrCanceled},
		{"refused", errors.New("connection refused"), domain.ErrUnreachable},
		{"failure passthrough", domain.ErrUnauthenticated, domain.ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := Normalize(nil, tt.err, "ignored")
			assert.Nil(t, body)
			assert.ErrorIs(t, err, tt.want)
			if tt.want != domain.ErrUnauthenticated {
				assert.ErrorIs(t, err, domain.ErrTransport)
			}
		})
	}
}

func TestNormalize_Status(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"server message", 400, `{"message":"title is required"}`, "title is required"},
		{"empty message", 401, `{"message":""}`, "failed to save"},
		{"non-string message", 500, `{"message":42}`, "failed to save"},
		{"no body", 401, ``, "failed to save"},
		{"html body", 502, `<html>bad gateway</html>`, "failed to save"},
		{"redirect", 302, `{}`, "failed to save"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(&Response{StatusCode: tt.status, Body: []byte(tt.body)}, nil, "failed to save")

			f, ok := domain.AsFailure(err)
			require.True(t, ok)
			assert.Equal(t, domain.KindApplication, f.Kind)
			assert.Equal(t, tt.status, f.HTTPStatus)
			assert.Equal(t, tt.wantMsg, f.Message)
			assert.ErrorIs(t, err, domain.ErrApplication)
		})
	}
}

func TestNormalize_Success(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusNoContent} {
		body, err := Normalize(&Response{StatusCode: status, Body: []byte(`{"id":"1"}`)}, nil, "x")
		require.NoError(t, err)
		assert.Equal(t, `{"id":"1"}`, string(body))
	}
}

func TestDecodeOne(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		got, err := DecodeOne[domain.Home]([]byte(`{"home":{"id":"h1","language":"en","data":{"data":"hi"},"seq":2}}`), "home")
		require.NoError(t, err)
		want := &domain.Home{ID: "h1", Language: domain.LanguageEN, Data: domain.HomeData{Data: "hi"}, Seq: 2}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("DecodeOne() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("numeric id", func(t *testing.T) {
		got, err := DecodeOne[domain.Article]([]byte(`{"article":{"id":42,"language":"zh","data":{"title":"t"},"seq":1}}`), "article")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "42", got.ID)
		assert.Equal(t, domain.LanguageZH, got.Language)
	})

	t.Run("absent", func(t *testing.T) {
		got, err := DecodeOne[domain.Home]([]byte(`{}`), "home")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("null", func(t *testing.T) {
		got, err := DecodeOne[domain.Home]([]byte(`{"home":null}`), "home")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("wrong key only", func(t *testing.T) {
		got, err := DecodeOne[domain.Home]([]byte(`{"homes":{"id":"h1"}}`), "home")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("undecodable", func(t *testing.T) {
		_, err := DecodeOne[domain.Home]([]byte(`{"home":"oops"}`), "home")
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		assert.ErrorIs(t, err, domain.ErrApplication)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := DecodeOne[domain.Home]([]byte(`<html>`), "home")
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	})
}

func TestDecodeList(t *testing.T) {
	t.Run("with total", func(t *testing.T) {
		body := []byte(`{"article":[{"id":"1","title":"A","language":"en","created_at":"2024-05-01T10:00:00Z","seq":1},{"id":"2","title":"B","language":"en","created_at":"2024-05-02T10:00:00Z","seq":2}],"total":12}`)
		list, err := DecodeList[domain.ArticleSummary](body, "article")
		require.NoError(t, err)
		require.Len(t, list.Items, 2)
		assert.Equal(t, "B", list.Items[1].Title)
		require.NotNil(t, list.Total)
		assert.Equal(t, 12, *list.Total)
	})

	t.Run("absent key", func(t *testing.T) {
		list, err := DecodeList[domain.Service]([]byte(`{"total":0}`), "service")
		require.NoError(t, err)
		assert.NotNil(t, list.Items)
		assert.Empty(t, list.Items)
		require.NotNil(t, list.Total)
		assert.Zero(t, *list.Total)
	})

	t.Run("no total", func(t *testing.T) {
		list, err := DecodeList[domain.Service]([]byte(`{"service":[]}`), "service")
		require.NoError(t, err)
		assert.Empty(t, list.Items)
		assert.Nil(t, list.Total)
	})

	t.Run("not a list", func(t *testing.T) {
		_, err := DecodeList[domain.Service]([]byte(`{"service":{"id":"1"}}`), "service")
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	})
}

func TestDecodeID(t *testing.T) {
	tests := []struct {
		body    string
		want    string
		wantErr bool
	}{
		{`{"id":"01HX5"}`, "01HX5", false},
		{`{"id":42}`, "42", false},
		{`{"id":""}`, "", true},
		{`{"id":null}`, "", true},
		{`{"id":{"x":1}}`, "", true},
		{`{}`, "", true},
		{`not json`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			got, err := DecodeID([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode(t *testing.T) {
	got, err := Decode[domain.Session]([]byte(`{"user_id":"1","username":"admin","token":"t"}`))
	require.NoError(t, err)
	assert.Equal(t, &domain.Session{UserID: "1", Username: "admin", Token: "t"}, got)

	_, err = Decode[domain.Session](nil)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)

	_, err = Decode[domain.Session]([]byte(`[1,2]`))
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}
