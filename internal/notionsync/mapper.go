package notionsync

import (
	"github.com/jomei/notionapi"

	"github.com/dvloznov/vendorscope/internal/domain"
)

// VendorToNotionProperties converts a VendorRecord to Notion properties for
// the vendors database. Vendor name is the page title; Category and Action
// are selects so the database can be grouped by them.
func VendorToNotionProperties(rec *domain.VendorRecord) notionapi.Properties {
	props := notionapi.Properties{
		"Vendor": notionapi.TitleProperty{
			Title: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: rec.Name,
					},
				},
			},
		},
		"Amount": notionapi.NumberProperty{
			Number: rec.Amount.InexactFloat64(),
		},
	}

	if rec.Description != "" {
		props["Description"] = notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: rec.Description,
					},
				},
			},
		}
	}

	if rec.Category != "" {
		props["Category"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: rec.Category,
			},
		}
	}

	if !rec.Action.IsZero() {
		props["Action"] = notionapi.SelectProperty{
			Select: notionapi.Option{
				Name: string(rec.Action.Kind),
			},
		}
	}

	if rec.Action.Kind == domain.ActionConsolidate {
		props["Consolidate With"] = notionapi.RichTextProperty{
			RichText: []notionapi.RichText{
				{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{
						Content: rec.Action.Target,
					},
				},
			},
		}
	}

	return props
}
