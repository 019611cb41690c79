package user

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GoogleUserinfo verifies access tokens against Google's userinfo endpoint.
type GoogleUserinfo struct {
	opts []option.ClientOption
}

// NewGoogleUserinfo accepts extra client options, mainly to point the client
// at a different endpoint.
func NewGoogleUserinfo(opts ...option.ClientOption) *GoogleUserinfo {
	return &GoogleUserinfo{opts: opts}
}

func (g *GoogleUserinfo) Verify(ctx context.Context, accessToken string) (*GoogleIdentity, error) {
	if accessToken == "" {
		return nil, ErrInvalidGoogleToken
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, g.opts...)

	svc, err := googleoauth2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating oauth2 service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500 {
			return nil, ErrInvalidGoogleToken
		}

		return nil, fmt.Errorf("fetching userinfo: %w", err)
	}

	return &GoogleIdentity{
		Email:      info.Email,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
	}, nil
}
