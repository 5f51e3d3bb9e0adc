package notionsync

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/dvloznov/vendorscope/internal/domain"
	"github.com/dvloznov/vendorscope/internal/logger"
)

// Publisher syncs analyzed vendor records into a Notion database. Pages are
// keyed by vendor name: an existing page is updated, a missing one created,
// so repeated runs stay idempotent.
type Publisher struct {
	client     NotionService
	databaseID string
	dryRun     bool
}

// NewPublisher creates a Publisher for the given Notion database.
func NewPublisher(client NotionService, databaseID string, dryRun bool) *Publisher {
	return &Publisher{
		client:     client,
		databaseID: databaseID,
		dryRun:     dryRun,
	}
}

// PublishRecords creates or updates one Notion page per vendor record.
func (p *Publisher) PublishRecords(ctx context.Context, records []domain.VendorRecord) error {
	log := logger.FromContext(ctx)

	log.Info().
		Int("record_count", len(records)).
		Bool("dry_run", p.dryRun).
		Msg("Starting vendor sync to Notion")

	pages, err := queryAllNotionPages(ctx, p.client, p.databaseID)
	if err != nil {
		return fmt.Errorf("PublishRecords: query existing pages: %w", err)
	}

	existing := make(map[string]string, len(pages))
	for _, page := range pages {
		if name := extractVendorName(page); name != "" {
			existing[name] = string(page.ID)
		}
	}

	var created, updated int
	for i := range records {
		rec := &records[i]
		props := VendorToNotionProperties(rec)

		pageID, ok := existing[rec.Name]
		if p.dryRun {
			log.Info().
				Str("vendor", rec.Name).
				Bool("exists", ok).
				Msg("[DRY RUN] Would sync vendor page")
			continue
		}

		if ok {
			if _, err := p.client.UpdatePage(ctx, pageID, props); err != nil {
				return fmt.Errorf("PublishRecords: update page for %s: %w", rec.Name, err)
			}
			updated++
		} else {
			if _, err := p.client.CreatePage(ctx, p.databaseID, props); err != nil {
				return fmt.Errorf("PublishRecords: create page for %s: %w", rec.Name, err)
			}
			created++
		}
	}

	log.Info().
		Int("created", created).
		Int("updated", updated).
		Msg("Vendor sync to Notion complete")
	return nil
}

// queryAllNotionPages pages through the whole database.
func queryAllNotionPages(ctx context.Context, notionClient NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: 100,
		}
		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := notionClient.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllNotionPages: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}

// extractVendorName reads the Vendor title property from a page.
// Returns empty string if not found.
func extractVendorName(page notionapi.Page) string {
	if prop, ok := page.Properties["Vendor"]; ok {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			if len(title.Title) > 0 {
				return title.Title[0].PlainText
			}
		}
	}
	return ""
}
