package api

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"admindash/internal/model"
)

// Stats are the dashboard's derived read-only aggregates.
type Stats struct {
	Users       int
	ActiveTasks int
	Inventory   int
	RecentTasks []model.Task
}

// Counts are the sidebar's raw collection lengths.
type Counts struct {
	Users     int
	Tasks     int
	Inventory int
}

const recentTaskLimit = 5

// DashboardStats fetches all three collections in parallel with an
// all-or-nothing join: if any fetch fails the whole batch fails and the
// caller keeps its prior values.
func (c *Client) DashboardStats(ctx context.Context) (Stats, error) {
	users, tasks, items, err := c.fetchAll(ctx)
	if err != nil {
		return Stats{}, err
	}

	active := 0
	for _, t := range tasks {
		if t.Status != model.StatusDone {
			active++
		}
	}

	recent := make([]model.Task, len(tasks))
	copy(recent, tasks)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[j].ID.Less(recent[i].ID)
	})
	if len(recent) > recentTaskLimit {
		recent = recent[:recentTaskLimit]
	}

	return Stats{
		Users:       len(users),
		ActiveTasks: active,
		Inventory:   len(items),
		RecentTasks: recent,
	}, nil
}

// SidebarCounts is the badge variant of the same three-way fetch.
func (c *Client) SidebarCounts(ctx context.Context) (Counts, error) {
	users, tasks, items, err := c.fetchAll(ctx)
	if err != nil {
		return Counts{}, err
	}
	return Counts{Users: len(users), Tasks: len(tasks), Inventory: len(items)}, nil
}

func (c *Client) fetchAll(ctx context.Context) ([]model.User, []model.Task, []model.InventoryItem, error) {
	var (
		users []model.User
		tasks []model.Task
		items []model.InventoryItem
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = c.ListUsers(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = c.ListTasks(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = c.ListInventory(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return users, tasks, items, nil
}
