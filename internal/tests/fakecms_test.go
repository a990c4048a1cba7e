package tests

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/yndnr/cmsadmin-go/internal/core/domain"
)

const (
	adminUser     = "admin"
	adminPassword = "pw"
	adminID       = "u-1"
)

// fakeCMS is an in-memory CMS speaking the admin API.
type fakeCMS struct {
	*httptest.Server

	mu       sync.Mutex
	password string
	tokens   map[string]bool
	articles map[string]domain.Article
	created  map[string]time.Time
	views    map[string]int
	avatars  map[string][]byte
	nextID   int

	requests atomic.Int64
	// block, when set, holds GET /categories until the request ends.
	block chan struct{}
}

func newFakeCMS(t *testing.T) *fakeCMS {
	t.Helper()
	f := &fakeCMS{
		password: adminPassword,
		tokens:   make(map[string]bool),
		articles: make(map[string]domain.Article),
		created:  make(map[string]time.Time),
		views:    make(map[string]int),
		avatars:  make(map[string][]byte),
	}
	f.Server = httptest.NewServer(f.router())
	t.Cleanup(f.Close)
	return f
}

func (f *fakeCMS) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(f.count)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/admin/login", f.login).Methods(http.MethodPost)
	api.HandleFunc("/articles", f.listArticles).Methods(http.MethodGet)
	api.HandleFunc("/articles/{id}", f.getArticle).Methods(http.MethodGet)
	api.HandleFunc("/articles/{id}/view", f.viewArticle).Methods(http.MethodPost)
	api.HandleFunc("/categories", f.slowCategories).Methods(http.MethodGet)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(f.requireToken)
	admin.HandleFunc("/logout", f.logout).Methods(http.MethodPost)
	admin.HandleFunc("/users/password", f.changePassword).Methods(http.MethodPut)
	admin.HandleFunc("/articles", f.saveArticle).Methods(http.MethodPost, http.MethodPut)
	admin.HandleFunc("/articles/{id}", f.deleteArticle).Methods(http.MethodDelete)
	admin.HandleFunc("/members/{id}/avatar", f.uploadAvatar).Methods(http.MethodPost)
	return r
}

func (f *fakeCMS) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		next.ServeHTTP(w, r)
	})
}

func (f *fakeCMS) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		f.mu.Lock()
		ok := f.tokens[token]
		f.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (f *fakeCMS) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if req.Username != adminUser || req.Password != f.password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
		return
	}
	token := fmt.Sprintf("tok-%d-%d", len(f.tokens)+1, time.Now().UnixNano())
	f.tokens[token] = true
	writeJSON(w, http.StatusOK, map[string]string{"user_id": adminID, "username": adminUser, "token": token})
}

func (f *fakeCMS) logout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	f.mu.Lock()
	delete(f.tokens, token)
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "bye"})
}

func (f *fakeCMS) changePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewPassword string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.NewPassword == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "new_password is required"})
		return
	}
	f.mu.Lock()
	f.password = req.NewPassword
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{})
}

func (f *fakeCMS) listArticles(w http.ResponseWriter, r *http.Request) {
	lang := domain.Language(r.Header.Get("Accept-Language"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}

	f.mu.Lock()
	var all []domain.ArticleSummary
	for id, a := range f.articles {
		if lang != "" && a.Language != lang {
			continue
		}
		all = append(all, domain.ArticleSummary{
			ID:        id,
			Title:     a.Data.Title,
			Language:  a.Language,
			CreatedAt: f.created[id],
			Seq:       a.Seq,
		})
	}
	f.mu.Unlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Seq < all[j].Seq })
	total := len(all)
	start := min((page-1)*size, total)
	end := min(start+size, total)

	writeJSON(w, http.StatusOK, map[string]any{
		"articles": all[start:end],
		"total":    total,
	})
}

func (f *fakeCMS) getArticle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	f.mu.Lock()
	a, ok := f.articles[id]
	f.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "article not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"article": a})
}

func (f *fakeCMS) viewArticle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	f.mu.Lock()
	f.views[id]++
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (f *fakeCMS) saveArticle(w http.ResponseWriter, r *http.Request) {
	var in domain.ArticleInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	id := in.ID
	switch r.Method {
	case http.MethodPost:
		f.nextID++
		id = strconv.Itoa(f.nextID)
		f.created[id] = time.Date(2024, 1, f.nextID, 0, 0, 0, 0, time.UTC)
	case http.MethodPut:
		if _, ok := f.articles[id]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "article not found"})
			return
		}
	}

	f.articles[id] = domain.Article{
		ID:       id,
		Language: in.Language,
		Seq:      in.Seq,
		Data: domain.ArticleData{
			Title:      in.Title,
			Content:    in.Content,
			CategoryID: in.CategoryID,
		},
	}

	if r.Method == http.MethodPost {
		// numeric ids, as the real server sends them
		n, _ := strconv.Atoi(id)
		writeJSON(w, http.StatusOK, map[string]any{"id": n})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (f *fakeCMS) deleteArticle(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.articles[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "article not found"})
		return
	}
	delete(f.articles, id)
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (f *fakeCMS) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("avatar")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}
	defer file.Close()
	data, _ := io.ReadAll(file)

	f.mu.Lock()
	f.avatars[mux.Vars(r)["id"]] = data
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (f *fakeCMS) slowCategories(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-r.Context().Done():
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": []any{}})
}

func (f *fakeCMS) setBlock(ch chan struct{}) {
	f.mu.Lock()
	f.block = ch
	f.mu.Unlock()
}

func (f *fakeCMS) viewCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.views[id]
}

func (f *fakeCMS) avatar(id string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.avatars[id]
}
