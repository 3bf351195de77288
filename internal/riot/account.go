package riot

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Idumii/ArenaGaming/internal/game"
)

// LookupAccount resolves a Riot ID (GameName#TagLine) to a stable account.
// ok=false means the account does not exist, which is a user-facing outcome
// ("player not found"), not an error.
func (c *Client) LookupAccount(ctx context.Context, gameName, tagLine string) (*game.Account, bool, error) {
	endpoint := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.regionalHost, url.PathEscape(gameName), url.PathEscape(tagLine))

	var account game.Account
	ok, err := c.get(ctx, endpoint, &account)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up account: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return &account, true, nil
}
