package domain

import "time"

// WriterProfile is a row of profils_redacteurs.
type WriterProfile struct {
	ID                        string                `json:"id"`
	UserID                    string                `json:"user_id"`
	NomProfil                 string                `json:"nom_profil"`
	SpecialiteThematique      string                `json:"specialite_thematique"`
	StyleEcriture             string                `json:"style_ecriture"`
	Ton                       string                `json:"ton"`
	NiveauLangage             string                `json:"niveau_langage"`
	TraitsPersonnalite        []string              `json:"traits_personnalite"`
	ParametresSEO             SEOParams             `json:"parametres_seo"`
	RecommandationsActives    *bool                 `json:"recommandations_actives,omitempty"`
	ParametresRecommandations *RecommendationParams `json:"parametres_recommandations,omitempty"`
	DateCreation              time.Time             `json:"date_creation"`
	DateModification          time.Time             `json:"date_modification"`
}

type SEOParams struct {
	DensiteMotsCles  float64 `json:"densite_mots_cles"`
	MetaDescriptions bool    `json:"meta_descriptions"`
}

// RecommendationParams selects which profile attributes feed recommendations.
type RecommendationParams struct {
	Style      bool `json:"style"`
	Specialite bool `json:"specialite"`
}

type TraitOrigin string

const (
	TraitOriginManual      TraitOrigin = "manuel"
	TraitOriginRecommended TraitOrigin = "recommande"
)

// PersonalityTrait mirrors traits_personnalite rows. Nothing reads or writes
// it yet; profiles store their trait labels inline.
type PersonalityTrait struct {
	ID                string      `json:"id"`
	ProfilRedacteurID string      `json:"profil_redacteur_id"`
	Trait             string      `json:"trait"`
	Origine           TraitOrigin `json:"origine"`
	Description       *string     `json:"description"`
	DateCreation      time.Time   `json:"date_creation"`
	DateModification  time.Time   `json:"date_modification"`
}

const (
	DefaultKeywordDensity   = 2.0
	DefaultMetaDescriptions = true
)
