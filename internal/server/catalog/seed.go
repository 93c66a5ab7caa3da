package catalog

import (
	"context"

	"github.com/dmitrijs2005/artefacto/internal/server/models"
)

// Seed loads a small demo catalog.
func (s *Store) Seed(ctx context.Context) {
	borobudur := s.CreateTemple(ctx, models.Temple{
		Title:              "Candi Borobudur",
		Description:        "Ninth-century Mahayana Buddhist temple in Magelang, Central Java.",
		LocationURL:        "https://maps.google.com/?q=Borobudur",
		FunfactTitle:       "The largest Buddhist temple",
		FunfactDescription: "It holds 2,672 relief panels and 504 Buddha statues.",
	})
	prambanan := s.CreateTemple(ctx, models.Temple{
		Title:              "Candi Prambanan",
		Description:        "Ninth-century Hindu temple compound dedicated to the Trimurti.",
		LocationURL:        "https://maps.google.com/?q=Prambanan",
		FunfactTitle:       "Legend of Roro Jonggrang",
		FunfactDescription: "Folklore says the compound was built in a single night.",
	})

	artifacts := []models.Artifact{
		{
			TempleID:       borobudur.TempleID,
			Title:          "Kalpataru Relief",
			Description:    "Relief of the wish-fulfilling tree flanked by kinnara.",
			DetailPeriod:   "9th century",
			DetailMaterial: "Andesite",
			DetailStyle:    "Sailendra",
		},
		{
			TempleID:       borobudur.TempleID,
			Title:          "Stupa Terawang",
			Description:    "Perforated bell-shaped stupa housing a seated Buddha.",
			DetailPeriod:   "9th century",
			DetailMaterial: "Andesite",
			DetailSize:     "3.5 m",
		},
		{
			TempleID:       prambanan.TempleID,
			Title:          "Arca Durga Mahisasuramardini",
			Description:    "Statue of Durga slaying the buffalo demon.",
			AdditionalInfo: "Kept in the northern chamber of the Shiva temple.",
			DetailPeriod:   "9th century",
			DetailMaterial: "Andesite",
			DetailStyle:    "Mataram",
		},
	}
	for _, a := range artifacts {
		_, _ = s.CreateArtifact(ctx, a)
	}

	tickets := []models.Ticket{
		{TempleID: borobudur.TempleID, Title: "Borobudur Domestic Adult", Description: "Temple yard entry.", Price: 50000},
		{TempleID: borobudur.TempleID, Title: "Borobudur Child", Description: "Ages 3 to 10.", Price: 25000},
		{TempleID: prambanan.TempleID, Title: "Prambanan Domestic Adult", Description: "Temple compound entry.", Price: 50000},
	}
	for _, t := range tickets {
		_, _ = s.CreateTicket(ctx, t)
	}
}
