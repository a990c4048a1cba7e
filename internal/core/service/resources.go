package service

import (
	"context"
	"io"
	"net/url"

	"github.com/yndnr/cmsadmin-go/internal/core/domain"
	"github.com/yndnr/cmsadmin-go/internal/transport"
)

// Concrete resource clients.
type (
	Home       = Resource[domain.Home, domain.Home, domain.HomeInput]
	Services   = Resource[domain.Service, domain.Service, domain.ServiceInput]
	Categories = Resource[domain.Category, domain.Category, domain.CategoryInput]
	Contact    = Resource[domain.Contact, domain.Contact, domain.ContactInput]
)

func messages(plural, singular string) Messages {
	return Messages{
		List:     "failed to fetch " + plural,
		Retrieve: "failed to fetch " + singular,
		Save:     "failed to save " + singular,
		Delete:   "failed to delete " + singular,
	}
}

// NewHome creates the home sections client.
func NewHome(b *transport.Builder, exec Executor) *Home {
	return NewResource[domain.Home, domain.Home, domain.HomeInput](ResourceConfig{
		Path:      "home",
		ListKey:   "home",
		RecordKey: "home",
		Messages:  messages("home sections", "home section"),
	}, b, exec)
}

// NewServices creates the services client.
func NewServices(b *transport.Builder, exec Executor) *Services {
	return NewResource[domain.Service, domain.Service, domain.ServiceInput](ResourceConfig{
		Path:      "services",
		ListKey:   "services",
		RecordKey: "service",
		Messages:  messages("services", "service"),
	}, b, exec)
}

// NewCategories creates the categories client.
func NewCategories(b *transport.Builder, exec Executor) *Categories {
	return NewResource[domain.Category, domain.Category, domain.CategoryInput](ResourceConfig{
		Path:      "categories",
		ListKey:   "categories",
		RecordKey: "category",
		Messages:  messages("categories", "category"),
	}, b, exec)
}

// NewContact creates the contact details client.
func NewContact(b *transport.Builder, exec Executor) *Contact {
	return NewResource[domain.Contact, domain.Contact, domain.ContactInput](ResourceConfig{
		Path:      "contact",
		ListKey:   "contact",
		RecordKey: "contact",
		Messages:  messages("contact details", "contact details"),
	}, b, exec)
}

// ============================================================================
// Articles
// ============================================================================

// Articles is the articles client.
type Articles struct {
	*Resource[domain.Article, domain.ArticleSummary, domain.ArticleInput]
}

// NewArticles creates the articles client.
func NewArticles(b *transport.Builder, exec Executor) *Articles {
	return &Articles{NewResource[domain.Article, domain.ArticleSummary, domain.ArticleInput](ResourceConfig{
		Path:      "articles",
		ListKey:   "articles",
		RecordKey: "article",
		Messages:  messages("articles", "article"),
	}, b, exec)}
}

// View records one view of an article. It needs no session.
func (a *Articles) View(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput.WithMessage("id is required")
	}
	_, err := a.send(ctx, transport.OpAction, a.recordPath(id)+"/view", transport.BuildOptions{}, "failed to record article view")
	return err
}

// ============================================================================
// Members
// ============================================================================

// AvatarField is the multipart field carrying the avatar image.
const AvatarField = "avatar"

// Members is the team members client.
type Members struct {
	*Resource[domain.Member, domain.MemberSummary, domain.MemberInput]
}

// NewMembers creates the members client.
func NewMembers(b *transport.Builder, exec Executor) *Members {
	return &Members{NewResource[domain.Member, domain.MemberSummary, domain.MemberInput](ResourceConfig{
		Path:      "members",
		ListKey:   "members",
		RecordKey: "member",
		Messages:  messages("members", "member"),
	}, b, exec)}
}

// UploadAvatar replaces the avatar of a member. The image is sent as a
// multipart body under the upload timeout class.
func (m *Members) UploadAvatar(ctx context.Context, id, filename string, image io.Reader) error {
	if id == "" {
		return domain.ErrInvalidInput.WithMessage("id is required")
	}
	if image == nil {
		return domain.ErrInvalidInput.WithMessage("avatar image is required")
	}

	_, err := m.send(ctx, transport.OpUpload, "/admin/members/"+url.PathEscape(id)+"/avatar", transport.BuildOptions{
		RequiresAuth: true,
		Form: &transport.Form{Files: []transport.FormFile{
			{Field: AvatarField, Filename: filename, Content: image},
		}},
	}, "failed to upload avatar")
	return err
}
