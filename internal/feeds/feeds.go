package feeds

import (
	"context"
	"net/url"
)

// Fixtures fetches the full fixture list for a tournament calendar.
func (c *Client) Fixtures(ctx context.Context, tournamentID, competitionSlug string) (*FixtureFeed, error) {
	params := url.Values{}
	params.Set("tmcl", tournamentID)
	params.Set("live", "yes")
	params.Set("_pgSz", "400")

	var feed FixtureFeed
	u := c.feedURL("match", "", params)
	if err := c.getJSON(ctx, "match", u, c.referer(competitionSlug, tournamentID), &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// MatchEvents fetches the event stream for a single match.
func (c *Client) MatchEvents(ctx context.Context, matchID, tournamentID, competitionSlug string) (*MatchDocument, error) {
	var doc MatchDocument
	u := c.feedURL("matchevent", matchID, nil)
	if err := c.getJSON(ctx, "matchevent", u, c.referer(competitionSlug, tournamentID), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// MatchStats fetches the line-up stats document for a single match.
func (c *Client) MatchStats(ctx context.Context, matchID, tournamentID, competitionSlug string) (*MatchDocument, error) {
	var doc MatchDocument
	u := c.feedURL("matchstats", matchID, nil)
	if err := c.getJSON(ctx, "matchstats", u, c.referer(competitionSlug, tournamentID), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Standings fetches the standings tables for a tournament calendar.
func (c *Client) Standings(ctx context.Context, tournamentID, competitionSlug string) (*StandingsFeed, error) {
	params := url.Values{}
	params.Set("tmcl", tournamentID)
	params.Set("live", "yes")

	var feed StandingsFeed
	u := c.feedURL("standings", "", params)
	if err := c.getJSON(ctx, "standings", u, c.referer(competitionSlug, tournamentID), &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// Squads fetches every club squad for a tournament calendar.
func (c *Client) Squads(ctx context.Context, tournamentID, competitionSlug string) (*SquadsFeed, error) {
	params := url.Values{}
	params.Set("tmcl", tournamentID)
	params.Set("detailed", "yes")

	var feed SquadsFeed
	u := c.feedURL("squads", "", params)
	if err := c.getJSON(ctx, "squads", u, c.referer(competitionSlug, tournamentID), &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}
