package classify

import (
	"testing"

	"github.com/sahelwatch/sentinel-engine/pkg/models"
)

func TestRuleCategorize(t *testing.T) {
	tests := []struct {
		name           string
		title          string
		content        string
		wantCategory   string
		wantConfidence float64
	}{
		{
			name:           "kidnapping",
			title:          "Students abducted from boarding school",
			content:        "The abductors are demanding a ransom for their release.",
			wantCategory:   models.CategoryKidnapping,
			wantConfidence: 75,
		},
		{
			name:           "banditry",
			title:          "Bandits raid villages in Zamfara",
			content:        "Armed gang carted away livestock overnight.",
			wantCategory:   models.CategoryBanditry,
			wantConfidence: 70,
		},
		{
			name:           "gunmen violence",
			title:          "Unknown gunmen open fire at checkpoint",
			content:        "Two officers were shot dead during the shooting.",
			wantCategory:   models.CategoryGunmen,
			wantConfidence: 65,
		},
		{
			name:           "farmer-herder",
			title:          "Herdsmen and farmers fight over farmland",
			content:        "The dispute over grazing routes turned violent.",
			wantCategory:   models.CategoryFarmerHerder,
			wantConfidence: 60,
		},
		{
			name:           "kidnapping outranks farmer-herder",
			title:          "Herders kidnap farmer on his farmland",
			content:        "The victim was taken to an unknown location.",
			wantCategory:   models.CategoryKidnapping,
			wantConfidence: 75,
		},
		{
			name:           "unknown",
			title:          "Stock exchange closes higher",
			content:        "Investors reacted to the central bank announcement.",
			wantCategory:   models.CategoryUnknown,
			wantConfidence: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, confidence := RuleCategorize(tt.title, tt.content)
			if category != tt.wantCategory {
				t.Errorf("category = %q, want %q", category, tt.wantCategory)
			}
			if confidence != tt.wantConfidence {
				t.Errorf("confidence = %v, want %v", confidence, tt.wantConfidence)
			}
		})
	}
}
