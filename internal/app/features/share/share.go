// Package share grants access to items and mints access URLs.
package share

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/dalemusser/stratadrive/internal/app/gateway"
	"github.com/dalemusser/stratadrive/internal/app/system/notify"
	"github.com/dalemusser/stratadrive/internal/domain/models"
	"go.uber.org/zap"
)

// FolderLinkMessage is shown when a public link is requested for a
// folder. The request is rejected client-side before any network call.
const FolderLinkMessage = "Public links are not yet supported for folders."

// ErrFolderLink is returned for folder public-link requests.
var ErrFolderLink = errors.New("public links apply to files only")

// Gateway is the slice of the remote content API the share feature uses.
// *gateway.Client satisfies it.
type Gateway interface {
	Share(ctx context.Context, in gateway.ShareInput) (string, error)
	PublicLink(ctx context.Context, fileID string) (string, error)
	SignedURL(ctx context.Context, storagePath string) (string, error)
}

// Service validates sharing requests and forwards them to the gateway.
type Service struct {
	gw     Gateway
	notify notify.Notifier
	log    *zap.Logger
}

// New creates a share Service.
func New(gw Gateway, notifier notify.Notifier, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.NewLog(log)
	}
	return &Service{gw: gw, notify: notifier, log: log}
}

// ShareWithUser grants or updates email's role on item. Invalid input is
// rejected before any network call. On success the server's confirmation
// message is returned and surfaced as a notification.
func (s *Service) ShareWithUser(ctx context.Context, item models.Item, email string, role models.Role) (string, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("invalid email address %q", email)
	}
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role %q", role)
	}

	msg, err := s.gw.Share(ctx, gateway.ShareInput{
		ItemID:   item.ID,
		ItemType: item.Type,
		Email:    email,
		Role:     role,
	})
	if err != nil {
		s.notify.Error("Could not share: " + gateway.UserMessage(err))
		return "", err
	}

	s.notify.Success(msg)
	return msg, nil
}

// PublicLink mints or retrieves item's persistent public URL. Folders are
// rejected immediately with a user-facing message and zero network calls.
func (s *Service) PublicLink(ctx context.Context, item models.Item) (string, error) {
	if item.Type != models.ItemFile {
		s.notify.Error(FolderLinkMessage)
		return "", ErrFolderLink
	}

	link, err := s.gw.PublicLink(ctx, item.ID)
	if err != nil {
		s.notify.Error("Could not create link: " + gateway.UserMessage(err))
		return "", err
	}
	return link, nil
}

// OpenFile mints a short-lived direct-access URL for item's content,
// used for preview and download. Failures are surfaced as a notification
// and never disturb any other state.
func (s *Service) OpenFile(ctx context.Context, item models.Item) (string, error) {
	if item.Type != models.ItemFile || item.File == nil {
		return "", fmt.Errorf("cannot open %q: not a file", item.Name)
	}

	u, err := s.gw.SignedURL(ctx, item.File.StoragePath)
	if err != nil {
		s.notify.Error("Could not open file: " + gateway.UserMessage(err))
		return "", err
	}
	return u, nil
}
