package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ykaradag/ustahub/internal/models"
)

// Admin endpoints. The backend enforces the admin authority on all of
// them; a non-admin session gets a 403, which expires the session like
// any other auth rejection.

// UstaRequest creates or renames a trade category.
type UstaRequest struct {
	Name            string `json:"name"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// SoruRequest creates an intake question for a trade.
type SoruRequest struct {
	UstaID   string   `json:"ustaId"`
	Question string   `json:"question"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
	Order    int      `json:"order"`
}

// OfferRequest attaches a price quote to a service request.
type OfferRequest struct {
	Price   float64 `json:"price"`
	Details string  `json:"details"`
}

// PortfolioItemRequest adds a showcase entry to a trade's gallery.
type PortfolioItemRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	MediaURL    string           `json:"mediaUrl"`
	MediaType   models.MediaType `json:"mediaType"`
}

// AdminRequests lists all service requests, paginated.
func (c *Client) AdminRequests(ctx context.Context, page, size int) (*models.Page[models.ServiceRequest], error) {
	var result models.Page[models.ServiceRequest]
	if err := c.do(ctx, http.MethodGet, "/admin/requests", pageQuery(page, size), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AdminCloseRequest closes any user's service request.
func (c *Client) AdminCloseRequest(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/requests/%s/close", id), nil, nil, nil)
}

// AdminUsers lists all user accounts, paginated.
func (c *Client) AdminUsers(ctx context.Context, page, size int) (*models.Page[models.UserProfile], error) {
	var result models.Page[models.UserProfile]
	if err := c.do(ctx, http.MethodGet, "/admin/users", pageQuery(page, size), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AdminUstalar lists all trade categories including inactive ones,
// paginated.
func (c *Client) AdminUstalar(ctx context.Context, page, size int) (*models.Page[models.Usta], error) {
	var result models.Page[models.Usta]
	if err := c.do(ctx, http.MethodGet, "/admin/ustalar", pageQuery(page, size), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AdminCreateUsta adds a trade category.
func (c *Client) AdminCreateUsta(ctx context.Context, req UstaRequest) (*models.Usta, error) {
	var usta models.Usta
	if err := c.do(ctx, http.MethodPost, "/admin/ustalar", nil, req, &usta); err != nil {
		return nil, err
	}
	return &usta, nil
}

// AdminUpdateUsta edits a trade category.
func (c *Client) AdminUpdateUsta(ctx context.Context, id string, req UstaRequest) (*models.Usta, error) {
	var usta models.Usta
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/ustalar/%s", id), nil, req, &usta); err != nil {
		return nil, err
	}
	return &usta, nil
}

// AdminDeactivateUsta hides a trade category from customers.
func (c *Client) AdminDeactivateUsta(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/ustalar/%s", id), nil, nil, nil)
}

// AdminActivateUsta restores a deactivated trade category.
func (c *Client) AdminActivateUsta(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/ustalar/%s/activate", id), nil, nil, nil)
}

// AdminSorular lists intake questions, paginated.
func (c *Client) AdminSorular(ctx context.Context, page, size int) (*models.Page[models.Soru], error) {
	var result models.Page[models.Soru]
	if err := c.do(ctx, http.MethodGet, "/admin/sorular", pageQuery(page, size), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AdminCreateSoru adds an intake question.
func (c *Client) AdminCreateSoru(ctx context.Context, req SoruRequest) (*models.Soru, error) {
	var soru models.Soru
	if err := c.do(ctx, http.MethodPost, "/admin/sorular", nil, req, &soru); err != nil {
		return nil, err
	}
	return &soru, nil
}

// AdminDeleteSoru removes an intake question.
func (c *Client) AdminDeleteSoru(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/sorular/%s", id), nil, nil, nil)
}

// AdminMailLogs lists outbound notification mails, paginated.
func (c *Client) AdminMailLogs(ctx context.Context, page, size int) (*models.Page[models.MailLog], error) {
	var result models.Page[models.MailLog]
	if err := c.do(ctx, http.MethodGet, "/admin/maillogs", pageQuery(page, size), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AdminCreateOffer attaches a price quote to a request.
func (c *Client) AdminCreateOffer(ctx context.Context, requestID string, req OfferRequest) (*models.Offer, error) {
	var offer models.Offer
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/requests/%s/offers", requestID), nil, req, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// AdminUpdateOffer changes the price of an existing quote.
func (c *Client) AdminUpdateOffer(ctx context.Context, offerID string, price float64) (*models.Offer, error) {
	var offer models.Offer
	body := struct {
		Price float64 `json:"price"`
	}{Price: price}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/offers/%s", offerID), nil, body, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// AdminPostReply adds an administrator message to a request's
// conversation.
func (c *Client) AdminPostReply(ctx context.Context, requestID, text string) (*models.Reply, error) {
	var reply models.Reply
	body := struct {
		Text string `json:"text"`
	}{Text: text}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/requests/%s/replies", requestID), nil, body, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// AdminHizmetler lists the full showcase catalog including unpublished
// entries.
func (c *Client) AdminHizmetler(ctx context.Context) ([]models.Hizmet, error) {
	var hizmetler []models.Hizmet
	if err := c.do(ctx, http.MethodGet, "/admin/hizmetler", nil, nil, &hizmetler); err != nil {
		return nil, err
	}
	return hizmetler, nil
}

// AdminHizmet fetches one showcase entry.
func (c *Client) AdminHizmet(ctx context.Context, id string) (*models.Hizmet, error) {
	var hizmet models.Hizmet
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/hizmetler/%s", id), nil, nil, &hizmet); err != nil {
		return nil, err
	}
	return &hizmet, nil
}

// AdminCreateHizmet adds a showcase entry.
func (c *Client) AdminCreateHizmet(ctx context.Context, hizmet models.Hizmet) (*models.Hizmet, error) {
	var created models.Hizmet
	if err := c.do(ctx, http.MethodPost, "/admin/hizmetler", nil, hizmet, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// AdminUpdateHizmet edits a showcase entry.
func (c *Client) AdminUpdateHizmet(ctx context.Context, id string, hizmet models.Hizmet) (*models.Hizmet, error) {
	var updated models.Hizmet
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/hizmetler/%s", id), nil, hizmet, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// AdminDeleteHizmet removes a showcase entry.
func (c *Client) AdminDeleteHizmet(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/hizmetler/%s", id), nil, nil, nil)
}

// AdminPortfolio lists a trade's gallery including inactive entries.
func (c *Client) AdminPortfolio(ctx context.Context, ustaID string) ([]models.PortfolioItem, error) {
	var items []models.PortfolioItem
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/admin/ustalar/%s/portfolio", ustaID), nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AdminCreatePortfolioItem adds a gallery entry to a trade.
func (c *Client) AdminCreatePortfolioItem(ctx context.Context, ustaID string, req PortfolioItemRequest) (*models.PortfolioItem, error) {
	var item models.PortfolioItem
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/ustalar/%s/portfolio", ustaID), nil, req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// AdminDeletePortfolioItem removes a gallery entry.
func (c *Client) AdminDeletePortfolioItem(ctx context.Context, contentID string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/portfolio/%s", contentID), nil, nil, nil)
}
