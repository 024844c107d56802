package mapmyride

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
)

const PageSize = 10

// GetAll pages through /v7.2/<endpoint>/ collecting _embedded.<key> until an empty page
func GetAll[T any](ctx context.Context, c *Client, endpoint, key string, params url.Values) ([]T, error) {
	var items []T
	for {
		query := url.Values{}
		for k, v := range params {
			query[k] = v
		}
		query.Set("limit", strconv.Itoa(PageSize))
		query.Set("offset", strconv.Itoa(len(items)))

		body, err := c.Get(ctx, fmt.Sprintf("/v7.2/%s/?%s", endpoint, query.Encode()))
		if err != nil {
			return nil, err
		}

		embedded := gjson.GetBytes(body, "_embedded."+key)
		if !embedded.Exists() || !embedded.IsArray() {
			return nil, fmt.Errorf("get all %s: response has no _embedded.%s list", endpoint, key)
		}

		var page []T
		if err := json.Unmarshal([]byte(embedded.Raw), &page); err != nil {
			return nil, fmt.Errorf("get all %s: unmarshal page at offset %d: %w", endpoint, len(items), err)
		}

		if len(page) == 0 {
			break
		}
		items = append(items, page...)
	}

	return items, nil
}

// GetWorkouts returns all the user's workouts, oldest first
func (c *Client) GetWorkouts(ctx context.Context, userID string) ([]Workout, error) {
	return GetAll[Workout](ctx, c, "workout", "workouts", url.Values{
		"user":     {userID},
		"order_by": {"start_datetime"},
	})
}

func (c *Client) GetRoute(ctx context.Context, workout Workout) (*Route, error) {
	link, ok := workout.Links.First("route")
	if !ok {
		return nil, fmt.Errorf("workout [%s]: %w: route", workout.Name, ErrMissingLink)
	}

	body, err := c.Get(ctx, link.Href)
	if err != nil {
		return nil, err
	}

	var route Route
	if err := json.Unmarshal(body, &route); err != nil {
		return nil, fmt.Errorf("unmarshal route: %w", err)
	}
	return &route, nil
}

func (c *Client) GetActivityType(ctx context.Context, workout Workout) (*ActivityType, error) {
	link, ok := workout.Links.First("activity_type")
	if !ok {
		return nil, fmt.Errorf("workout [%s]: %w: activity_type", workout.Name, ErrMissingLink)
	}

	body, err := c.Get(ctx, link.Href)
	if err != nil {
		return nil, err
	}

	var activityType ActivityType
	if err := json.Unmarshal(body, &activityType); err != nil {
		return nil, fmt.Errorf("unmarshal activity type: %w", err)
	}
	return &activityType, nil
}

// GetRoutePathData returns the raw route geometry in the given format (gpx or kml)
func (c *Client) GetRoutePathData(ctx context.Context, route Route, format string) ([]byte, error) {
	link, ok := route.Links.Named("alternate", format)
	if !ok {
		return nil, fmt.Errorf("route [%s]: %w: %s", route.Name, ErrPathFormatUnavailable, format)
	}
	return c.Get(ctx, link.Href)
}
