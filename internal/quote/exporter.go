package quote

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/glazeworks/window-storefront/internal/identity"
	"github.com/glazeworks/window-storefront/internal/sharetoken"
	"github.com/glazeworks/window-storefront/pkg/enums"
	pkgerrors "github.com/glazeworks/window-storefront/pkg/errors"
	"github.com/glazeworks/window-storefront/pkg/logger"
	"github.com/google/uuid"
)

const (
	PromotionPrompt    = "To share your cart, we need to save it to our database first. This will allow us to retrieve it later. Continue?"
	MsgPromotionFailed = "Failed to save your cart. Please try again or accept cookies to enable sharing."

	whatsAppEndpoint = "https://api.whatsapp.com/send/"
	messagePrefix    = "Hello! I'm interested in this window configuration: "
)

// ErrDeclined is returned when the visitor does not confirm promotion.
var ErrDeclined = errors.New("quote export declined")

// ConfirmFunc asks the visitor to approve promotion of a session cart.
type ConfirmFunc func(prompt string) bool

// Promoter is the cart surface the exporter needs.
type Promoter interface {
	Promote(ctx context.Context) (string, error)
}

// Quote is a shareable link plus the pre-filled message intent.
type Quote struct {
	CartID      string            `json:"cartId"`
	StorageType enums.StorageType `json:"storageType"`
	Token       string            `json:"token"`
	Link        string            `json:"link"`
	MessageURL  string            `json:"messageUrl"`
	Promoted    bool              `json:"promoted"`
}

// Options configures link construction.
type Options struct {
	// PublicURL is the storefront origin. When empty the caller's origin is used.
	PublicURL     string
	PagePath      string
	WhatsAppPhone string
}

// Input is one export request.
type Input struct {
	Cart     Promoter
	Identity identity.Identity
	// Origin is used when no public URL is configured.
	Origin  string
	Confirm ConfirmFunc
}

type Exporter struct {
	opts   Options
	ledger Ledger
	logg   *logger.Logger
	now    func() time.Time
}

// NewExporter builds an exporter. ledger may be nil.
func NewExporter(opts Options, ledger Ledger, logg *logger.Logger) *Exporter {
	if logg == nil {
		logg = logger.Nop()
	}
	if opts.PagePath == "" {
		opts.PagePath = "/"
	}
	return &Exporter{opts: opts, ledger: ledger, logg: logg, now: time.Now}
}

// Export produces a share link for the identity. Durable identities are
// encoded directly. Session-only identities need the visitor's confirmation
// and a successful promotion first; otherwise nothing is produced.
func (e *Exporter) Export(ctx context.Context, in Input) (Quote, error) {
	cartID := in.Identity.ID
	storage := in.Identity.ShareStorageType()
	promoted := false

	if in.Identity.NeedsPromotion() {
		if in.Confirm == nil || !in.Confirm(PromotionPrompt) {
			return Quote{}, pkgerrors.Wrap(pkgerrors.CodeConfirmationRequired, ErrDeclined, "confirmation required to share a session cart").
				WithDetails(map[string]any{"prompt": PromotionPrompt})
		}
		if in.Cart == nil {
			return Quote{}, pkgerrors.New(pkgerrors.CodeInternal, "cart is required for promotion")
		}
		persistent, err := in.Cart.Promote(ctx)
		if err != nil {
			code := pkgerrors.CodeOf(err)
			if code == pkgerrors.CodeInternal {
				code = pkgerrors.CodeUpstream
			}
			return Quote{}, pkgerrors.Wrap(code, err, MsgPromotionFailed)
		}
		if strings.TrimSpace(persistent) == "" {
			return Quote{}, pkgerrors.New(pkgerrors.CodeMalformed, MsgPromotionFailed)
		}
		cartID = persistent
		storage = enums.StorageDatabase
		promoted = true
	}

	token, err := sharetoken.Encode(sharetoken.New(cartID, storage, e.now()))
	if err != nil {
		return Quote{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding share token")
	}

	link, err := e.link(in.Origin, token)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{
		CartID:      cartID,
		StorageType: storage,
		Token:       token,
		Link:        link,
		MessageURL:  e.messageURL(link),
		Promoted:    promoted,
	}
	e.record(ctx, q, in.Identity)
	return q, nil
}

func (e *Exporter) link(origin, token string) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(e.opts.PublicURL), "/")
	if base == "" {
		base = strings.TrimRight(strings.TrimSpace(origin), "/")
	}
	if base == "" {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "no public origin for share links")
	}
	path := e.opts.PagePath
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path + "?" + sharetoken.QueryParam + "=" + url.QueryEscape(token), nil
}

func (e *Exporter) messageURL(link string) string {
	return whatsAppEndpoint +
		"?phone=" + url.QueryEscape(e.opts.WhatsAppPhone) +
		"&text=" + escapeComponent(messagePrefix+link) +
		"&app_absent=0"
}

// escapeComponent escapes spaces as %20 rather than "+".
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// record appends the export to the ledger. Ledger failures never fail the export.
func (e *Exporter) record(ctx context.Context, q Quote, from identity.Identity) {
	if e.ledger == nil {
		return
	}
	entry := &Export{
		ID:          uuid.New(),
		CartID:      q.CartID,
		StorageType: q.StorageType,
		Link:        q.Link,
		CreatedAt:   e.now().UTC(),
	}
	if q.Promoted {
		source := from.ID
		entry.PromotedFrom = &source
	}
	if err := e.ledger.Record(ctx, entry); err != nil {
		e.logg.Error(e.logg.WithCartID(ctx, q.CartID), "quote.ledger.failed", err)
	}
}
