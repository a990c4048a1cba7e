package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Language partitions every record.
type Language string

const (
	LanguageEN Language = "en"
	LanguageZH Language = "zh"
)

// DefaultLanguage is used when none is configured.
const DefaultLanguage = LanguageEN

// ParseLanguage converts a string into a Language.
func ParseLanguage(s string) (Language, error) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageEN:
		return LanguageEN, nil
	case LanguageZH:
		return LanguageZH, nil
	default:
		return "", ErrInvalidInput.WithMessage(fmt.Sprintf("unsupported language %q (want en or zh)", s))
	}
}

// Page selects a slice of a list. Zero values are omitted from the query.
type Page struct {
	Page     int
	PageSize int
}

// List is one page of list items plus the total count when the server
// reports it.
type List[T any] struct {
	Items []T  `json:"items"`
	Total *int `json:"total,omitempty"`
}

// Input is implemented by every save payload.
type Input interface {
	// HasID reports whether the input targets an existing record.
	HasID() bool
	// RecordID returns the id of the targeted record, or "".
	RecordID() string
}

// ============================================================================
// Home
// ============================================================================

// Home is a home page section.
type Home struct {
	ID       string   `json:"id"`
	Language Language `json:"language"`
	Data     HomeData `json:"data"`
	Seq      int      `json:"seq"`
}

// HomeData is the body of a home section.
type HomeData struct {
	Data string `json:"data"`
}

// HomeInput creates or updates a home section.
type HomeInput struct {
	ID       string   `json:"id,omitempty"`
	Data     string   `json:"data"`
	Language Language `json:"language"`
	Seq      int      `json:"seq"`
}

func (in HomeInput) HasID() bool      { return in.ID != "" }
func (in HomeInput) RecordID() string { return in.ID }

// ============================================================================
// Service
// ============================================================================

// Service is an offered service entry.
type Service struct {
	ID       string      `json:"id"`
	Language Language    `json:"language"`
	Data     ServiceData `json:"data"`
	Seq      int         `json:"seq"`
}

// ServiceData is the body of a service.
type ServiceData struct {
	Title string `json:"title"`
	Data  string `json:"data"`
	Icon  string `json:"icon,omitempty"`
}

// ServiceInput creates or updates a service.
type ServiceInput struct {
	ID       string   `json:"id,omitempty"`
	Title    string   `json:"title"`
	Data     string   `json:"data"`
	Language Language `json:"language"`
	Seq      int      `json:"seq"`
}

func (in ServiceInput) HasID() bool      { return in.ID != "" }
func (in ServiceInput) RecordID() string { return in.ID }

// ============================================================================
// Article
// ============================================================================

// Article is a full article.
type Article struct {
	ID       string      `json:"id"`
	Language Language    `json:"language"`
	Data     ArticleData `json:"data"`
	Seq      int         `json:"seq"`
}

// ArticleData is the body of an article.
type ArticleData struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID string `json:"category_id,omitempty"`
}

// ArticleSummary is an article list item.
type ArticleSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Language  Language  `json:"language"`
	CreatedAt time.Time `json:"created_at"`
	Seq       int       `json:"seq"`
}

// ArticleInput creates or updates an article.
type ArticleInput struct {
	ID         string   `json:"id,omitempty"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	CategoryID string   `json:"category_id,omitempty"`
	Language   Language `json:"language"`
	Seq        int      `json:"seq"`
}

func (in ArticleInput) HasID() bool      { return in.ID != "" }
func (in ArticleInput) RecordID() string { return in.ID }

// ============================================================================
// Member
// ============================================================================

// Image holds the two rendered sizes of an uploaded image.
type Image struct {
	LargeImage string `json:"large_image"`
	SmallImage string `json:"small_image"`
}

// Member is a team member profile.
type Member struct {
	ID       string     `json:"id"`
	Language Language   `json:"language"`
	Data     MemberData `json:"data"`
	Avatar   *Image     `json:"avatar,omitempty"`
	Seq      int        `json:"seq"`
}

// MemberData is the body of a member profile.
type MemberData struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// MemberSummary is a member list item.
type MemberSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Seq    int    `json:"seq"`
}

// MemberInput creates or updates a member.
type MemberInput struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Language    Language `json:"language"`
	Seq         int      `json:"seq"`
}

func (in MemberInput) HasID() bool      { return in.ID != "" }
func (in MemberInput) RecordID() string { return in.ID }

// ============================================================================
// Category
// ============================================================================

// Category groups articles.
type Category struct {
	ID       string       `json:"id"`
	Language Language     `json:"language"`
	Data     CategoryData `json:"data"`
	Seq      int          `json:"seq"`
}

// CategoryData is the body of a category.
type CategoryData struct {
	Icon string `json:"icon,omitempty"`
	Name string `json:"name"`
}

// CategoryInput creates or updates a category.
type CategoryInput struct {
	ID       string   `json:"id,omitempty"`
	Icon     string   `json:"icon,omitempty"`
	Name     string   `json:"name"`
	Language Language `json:"language"`
	Seq      int      `json:"seq"`
}

func (in CategoryInput) HasID() bool      { return in.ID != "" }
func (in CategoryInput) RecordID() string { return in.ID }

// ============================================================================
// Contact
// ============================================================================

// Contact holds free-form contact details.
type Contact struct {
	ID       string          `json:"id"`
	Language Language        `json:"language"`
	Data     json.RawMessage `json:"data"`
	Seq      int             `json:"seq"`
}

// ContactInput creates or updates contact details.
type ContactInput struct {
	ID       string          `json:"id,omitempty"`
	Data     json.RawMessage `json:"data"`
	Language Language        `json:"language"`
	Seq      int             `json:"seq"`
}

func (in ContactInput) HasID() bool      { return in.ID != "" }
func (in ContactInput) RecordID() string { return in.ID }
