package main

import (
	"context"

	"github.com/glscharan9/ai-health-companion/internal/logger"

	sdk "github.com/matrixorigin/moi-go-sdk"
)

// knowledge lets natural-language questions about weight progress be
// answered against the mirror table.
var knowledge = []sdk.NL2SQLKnowledgeCreateRequest{
	{Type: "glossary", Key: "weigh-in", Value: []string{"one row of user_progress: a user's weight on one calendar day"}},
	{Type: "glossary", Key: "progress", Value: []string{"the change in user_progress.weight_kg over log_date for one user"}},

	{Type: "synonyms", Key: "weight/body weight/kg", Value: []string{"logged body weight"}, AssociateTables: []string{"user_progress,weight_kg"}},
	{Type: "synonyms", Key: "date/day/when", Value: []string{"day the weight was logged for"}, AssociateTables: []string{"user_progress,log_date"}},

	{Type: "logic", Key: "the table is append-only; when a user logged the same day more than once, the row with the latest logged_at wins", Value: []string{"latest logged_at per (user_id, log_date)"}},

	{Type: "case_library", Key: "how much weight did each user lose in the last 30 days", Value: []string{"SELECT user_id, MAX(weight_kg) - MIN(weight_kg) AS change_kg FROM user_progress WHERE log_date >= DATE_SUB(CURDATE(), INTERVAL 30 DAY) GROUP BY user_id"}},
	{Type: "case_library", Key: "how many users logged their weight this week", Value: []string{"SELECT COUNT(DISTINCT user_id) FROM user_progress WHERE log_date >= DATE_SUB(CURDATE(), INTERVAL WEEKDAY(CURDATE()) DAY)"}},
}

func initKnowledge(ctx context.Context, client *sdk.RawClient) error {
	for _, k := range knowledge {
		resp, err := client.CreateKnowledge(ctx, &k)
		if err != nil {
			if isDuplicate(err) {
				logger.Info("knowledge: already exists, skipping", "type", k.Type, "key", k.Key)
				continue
			}
			return err
		}
		logger.Info("knowledge: created", "type", k.Type, "key", k.Key, "id", resp.ID)
	}
	return nil
}
