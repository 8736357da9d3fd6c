package server

import "context"

// Seed loads a small demo dataset into an empty store so the dashboard has
// something to show on first run. Collections that already hold records
// are left alone.
func Seed(ctx context.Context, st Store) error {
	demo := map[string][]Record{
		"users": {
			{"name": "Alice Moran", "email": "alice@example.com", "role": "admin"},
			{"name": "Ben Okafor", "email": "ben@example.com", "role": "user"},
			{"name": "Carla Jensen", "email": "carla@example.com", "role": "user"},
		},
		"tasks": {
			{"title": "Set up staging environment", "description": "Mirror the production config.", "status": "done", "priority": "high", "dueDate": "2026-08-12"},
			{"title": "Review onboarding docs", "description": "", "status": "in-progress", "priority": "medium", "dueDate": "2026-09-01"},
			{"title": "Rotate API keys", "description": "Quarterly rotation.", "status": "todo", "priority": "high", "dueDate": "2026-09-15"},
			{"title": "Archive old reports", "description": "", "status": "todo", "priority": "low", "dueDate": ""},
		},
		"inventory": {
			{"name": "Laptops", "quantity": 14},
			{"name": "Monitors", "quantity": 22},
			{"name": "Dock stations", "quantity": 9},
		},
	}

	for resource, recs := range demo {
		existing, err := st.List(ctx, resource)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}
		for _, rec := range recs {
			if _, err := st.Create(ctx, resource, rec); err != nil {
				return err
			}
		}
	}
	return nil
}
