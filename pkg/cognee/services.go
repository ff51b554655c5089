package cognee

import (
	"fmt"
	"net/url"
)

// Service accessors group Client methods by resource. Each service embeds
// *Client for its transport; DatasetsService shadows Get and Delete with
// dataset-level methods.

type DatasetsService struct{ *Client }

type SearchService struct{ *Client }

type AuthService struct{ *Client }

type PermissionsService struct{ *Client }

type HealthService struct{ *Client }

func (c *Client) Datasets() DatasetsService { return DatasetsService{c} }

func (c *Client) Search() SearchService { return SearchService{c} }

func (c *Client) Auth() AuthService { return AuthService{c} }

func (c *Client) Permissions() PermissionsService { return PermissionsService{c} }

func (c *Client) Health() HealthService { return HealthService{c} }

// resourcePath formats a path and escapes every caller-supplied segment.
func resourcePath(format string, segments ...string) string {
	escaped := make([]any, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return fmt.Sprintf(format, escaped...)
}
