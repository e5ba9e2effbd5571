package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ecc24clmk/clmk-site/internal/auth"
	"github.com/ecc24clmk/clmk-site/internal/config"
	"github.com/ecc24clmk/clmk-site/internal/db/models"
	"github.com/ecc24clmk/clmk-site/internal/web/handler"
)

// DefaultLogo is the bundled logo used until one is uploaded.
const DefaultLogo = "/static/img/default-logo.svg"

// DefaultSettings are created on first start. Existing keys are kept.
func DefaultSettings(siteName string) []models.Setting {
	if siteName == "" {
		siteName = "ECC/24ème CLMK"
	}

	return []models.Setting{
		{Key: "site_name", Value: siteName},
		{Key: "site_logo", Value: DefaultLogo, IsAsset: true},
		{Key: "contact_email", Value: "contact@ecc24clmk.org"},
		{Key: "contact_phone", Value: "+243 999 123 456"},
		{Key: "address", Value: "24ème CLMK, ECC, Bukavu, Sud-Kivu, RDC"},
		{Key: "facebook_url", Value: "https://facebook.com/ecc24clmk"},
		{Key: "twitter_url", Value: "https://twitter.com/ecc24clmk"},
		{Key: "instagram_url", Value: "https://instagram.com/ecc24clmk"},
		{Key: "youtube_url", Value: "https://youtube.com/ecc24clmk"},
		{Key: "linkedin_url", Value: "https://linkedin.com/company/ecc24clmk"},
		{
			Key: "about_fr",
			Value: "La 24ème Communauté CLMK de l'Église du Christ au Congo (ECC) se consacre à la " +
				"propagation de l'Évangile et au service de l'humanité depuis 1922.",
		},
		{
			Key: "about_en",
			Value: "The 24th CLMK Community of the Church of Christ in Congo (ECC) is dedicated to " +
				"spreading the Gospel and serving humanity since 1922.",
		},
		{
			Key:   "mission_fr",
			Value: "Faire de toutes les nations des disciples, les baptisant au nom du Père, du Fils et du Saint-Esprit.",
		},
		{
			Key:   "mission_en",
			Value: "To make disciples of all nations, baptizing them in the name of the Father, Son, and Holy Spirit.",
		},
		{Key: "vision_fr", Value: "Une communauté transfigurée vivant l'amour du Christ dans toutes ses dimensions."},
		{Key: "vision_en", Value: "A transfigured community living the love of Christ in all its dimensions."},
		{Key: "values_fr", Value: "Foi, Amour, Intégrité, Service, Unité"},
		{Key: "values_en", Value: "Faith, Love, Integrity, Service, Unity"},
	}
}

func seed(ctx context.Context, cfg *config.Config, deps *handler.Deps) error {
	if err := auth.Seed(deps.DB); err != nil {
		return err
	}

	if err := seedAdmin(cfg.Admin, deps); err != nil {
		return err
	}

	if err := deps.Settings.Seed(ctx, DefaultSettings(cfg.Title)); err != nil {
		return err
	}

	return seedContent(deps.DB, time.Now())
}

// seedAdmin creates the configured account when the user table is empty.
func seedAdmin(admin config.Admin, deps *handler.Deps) error {
	local := auth.NewLocalProvider(deps.DB)

	count, err := local.CountUsers()
	if err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	if admin.Email == "" || admin.Password == "" {
		log.Warn().Msg("no user exists and no admin account is configured, the back office is unreachable")
		return nil
	}

	roles, err := deps.Auth.RolesByName([]string{models.RoleAdmin})
	if err != nil {
		return err
	}

	name := admin.Name
	if name == "" {
		name = "Administrator"
	}

	user, err := local.CreateUser(auth.UserInput{
		Name:     name,
		Email:    admin.Email,
		Password: admin.Password,
		Roles:    roles,
	})
	if err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}

	log.Info().Str("email", user.Email).Msg("admin user created, change its password")

	return nil
}

// seedContent fills every empty family with sample records.
func seedContent(db *gorm.DB, now time.Time) error {
	steps := []func(*gorm.DB) error{
		seedRows(sampleServices()),
		seedRows(sampleTeam()),
		seedRows(sampleNews(now)),
		seedRows(sampleSlides()),
		seedRows(sampleVerses()),
	}

	for _, step := range steps {
		if err := step(db); err != nil {
			return err
		}
	}

	return nil
}

func seedRows[T any](rows []T) func(*gorm.DB) error {
	return func(db *gorm.DB) error {
		var n int64
		if err := db.Model(new(T)).Count(&n).Error; err != nil {
			return err
		}

		if n > 0 || len(rows) == 0 {
			return nil
		}

		return db.Create(&rows).Error
	}
}

func sampleServices() []models.Service {
	return []models.Service{
		{
			TitleFR:       "Évangélisation et formation biblique",
			TitleEN:       "Evangelism and Biblical Training",
			DescriptionFR: "Partager la Parole de Dieu et former des disciples à travers une éducation biblique solide et des actions communautaires.",
			DescriptionEN: "Sharing the Word of God and training disciples through robust biblical education and community outreach.",
			IsActive:      true,
		},
		{
			TitleFR:       "Éducation de la Jeunesse",
			TitleEN:       "Youth Education",
			DescriptionFR: "Fournir une éducation de qualité et une orientation morale pour autonomiser la prochaine génération.",
			DescriptionEN: "Providing quality education and moral guidance to empower the next generation for a brighter future.",
			IsActive:      true,
		},
		{
			TitleFR:       "Œuvres Sociales et Développement",
			TitleEN:       "Social Work & Development",
			DescriptionFR: "Soutenir les communautés vulnérables avec des soins de santé, de l'eau potable et des projets de développement durable.",
			DescriptionEN: "Supporting vulnerable communities with healthcare, clean water, and sustainable development projects.",
			IsActive:      true,
		},
	}
}

func sampleTeam() []models.TeamMember {
	return []models.TeamMember{
		{
			Name:   "Révérend Dr. Samuel Balagizi",
			RoleFR: "Représentant Légal",
			RoleEN: "Legal Representative",
			BioFR:  "Un leader dévoué avec plus de 30 ans de service.",
			BioEN:  "A dedicated leader with over 30 years of service.",
			Order:  1,
		},
		{
			Name:   "Maman Sarah Nabintu",
			RoleFR: "Présidente des Femmes",
			RoleEN: "Women's President",
			BioFR:  "Engagée dans l'autonomisation des femmes et l'éducation.",
			BioEN:  "Committed to women's empowerment and education.",
			Order:  2,
		},
	}
}

func sampleNews(now time.Time) []models.NewsItem {
	return []models.NewsItem{
		{
			TitleFR:     "Grande Conférence annuelle",
			TitleEN:     "Annual Great Conference",
			ContentFR:   "Nous vous invitons tous à participer à notre conférence annuelle qui se tiendra à Bukavu.",
			ContentEN:   "We invite you all to participate in our annual conference to be held in Bukavu.",
			PublishedAt: now,
		},
	}
}

func sampleSlides() []models.HeroSlide {
	return []models.HeroSlide{
		{
			Picture: models.Picture{
				Image: "https://images.unsplash.com/photo-1438232992991-995b7058bbb3?q=80&w=2073&auto=format&fit=crop",
			},
			TitleFR:      "Bienvenue à la 24ème CLMK",
			TitleEN:      "Welcome to the 24th CLMK",
			SubtitleFR:   "Une communauté de foi et d'espoir au Sud-Kivu.",
			SubtitleEN:   "A community of faith and hope in South Kivu.",
			ButtonTextFR: "En savoir plus",
			ButtonTextEN: "Learn More",
			ButtonURL:    "#about",
			Order:        1,
		},
		{
			Picture: models.Picture{
				Image: "https://images.unsplash.com/photo-1544427928-c49cdfebf194?q=80&w=2066&auto=format&fit=crop",
			},
			TitleFR:      "Servir Dieu ensemble",
			TitleEN:      "Serving God Together",
			SubtitleFR:   "Rejoignez nos activités et grandissez spirituellement.",
			SubtitleEN:   "Join our activities and grow spiritually.",
			ButtonTextFR: "Voir nos activités",
			ButtonTextEN: "View Activities",
			ButtonURL:    "#services",
			Order:        2,
		},
	}
}

func sampleVerses() []models.BibleVerse {
	return []models.BibleVerse{
		{
			TextFR:      "Car Dieu a tant aimé le monde qu'il a donné son Fils unique...",
			TextEN:      "For God so loved the world that he gave his only Son...",
			ReferenceFR: "Jean 3:16",
			ReferenceEN: "John 3:16",
			Order:       1,
		},
		{
			TextFR:      "Je puis tout par celui qui me fortifie.",
			TextEN:      "I can do all things through him who strengthens me.",
			ReferenceFR: "Philippiens 4:13",
			ReferenceEN: "Philippians 4:13",
			Order:       2,
		},
	}
}
