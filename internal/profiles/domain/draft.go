package domain

import "strings"

// SEOParamsDraft is the partially filled form of SEOParams.
type SEOParamsDraft struct {
	DensiteMotsCles  *float64 `json:"densite_mots_cles,omitempty"`
	MetaDescriptions *bool    `json:"meta_descriptions,omitempty"`
}

// ProfileDraft is a WriterProfile under construction: nil means "not
// provided". It is both the wizard's accumulated state and the payload of
// partial updates. A nil TraitsPersonnalite is absent, an empty one is an
// explicit empty selection.
type ProfileDraft struct {
	NomProfil                 *string               `json:"nom_profil,omitempty"`
	SpecialiteThematique      *string               `json:"specialite_thematique,omitempty"`
	StyleEcriture             *string               `json:"style_ecriture,omitempty"`
	Ton                       *string               `json:"ton,omitempty"`
	NiveauLangage             *string               `json:"niveau_langage,omitempty"`
	TraitsPersonnalite        []string              `json:"traits_personnalite"`
	ParametresSEO             *SEOParamsDraft       `json:"parametres_seo,omitempty"`
	RecommandationsActives    *bool                 `json:"recommandations_actives,omitempty"`
	ParametresRecommandations *RecommendationParams `json:"parametres_recommandations,omitempty"`
}

// DefaultDraft is the state of a freshly opened creation wizard.
func DefaultDraft() ProfileDraft {
	density := DefaultKeywordDensity
	meta := DefaultMetaDescriptions
	return ProfileDraft{
		TraitsPersonnalite: []string{},
		ParametresSEO: &SEOParamsDraft{
			DensiteMotsCles:  &density,
			MetaDescriptions: &meta,
		},
	}
}

// DraftFromProfile copies every attribute of p into a draft.
func DraftFromProfile(p WriterProfile) ProfileDraft {
	density := p.ParametresSEO.DensiteMotsCles
	meta := p.ParametresSEO.MetaDescriptions
	traits := make([]string, len(p.TraitsPersonnalite))
	copy(traits, p.TraitsPersonnalite)

	d := ProfileDraft{
		NomProfil:            strPtr(p.NomProfil),
		SpecialiteThematique: strPtr(p.SpecialiteThematique),
		StyleEcriture:        strPtr(p.StyleEcriture),
		Ton:                  strPtr(p.Ton),
		NiveauLangage:        strPtr(p.NiveauLangage),
		TraitsPersonnalite:   traits,
		ParametresSEO: &SEOParamsDraft{
			DensiteMotsCles:  &density,
			MetaDescriptions: &meta,
		},
		RecommandationsActives: p.RecommandationsActives,
	}
	if p.ParametresRecommandations != nil {
		rp := *p.ParametresRecommandations
		d.ParametresRecommandations = &rp
	}
	return d
}

// Merge assigns every field present in step onto d. Nested records are
// replaced as a whole, not merged.
func (d *ProfileDraft) Merge(step ProfileDraft) {
	if step.NomProfil != nil {
		d.NomProfil = step.NomProfil
	}
	if step.SpecialiteThematique != nil {
		d.SpecialiteThematique = step.SpecialiteThematique
	}
	if step.StyleEcriture != nil {
		d.StyleEcriture = step.StyleEcriture
	}
	if step.Ton != nil {
		d.Ton = step.Ton
	}
	if step.NiveauLangage != nil {
		d.NiveauLangage = step.NiveauLangage
	}
	if step.TraitsPersonnalite != nil {
		d.TraitsPersonnalite = step.TraitsPersonnalite
	}
	if step.ParametresSEO != nil {
		d.ParametresSEO = step.ParametresSEO
	}
	if step.RecommandationsActives != nil {
		d.RecommandationsActives = step.RecommandationsActives
	}
	if step.ParametresRecommandations != nil {
		d.ParametresRecommandations = step.ParametresRecommandations
	}
}

// WithSEODefaults substitutes density 2 for a missing or zero density and
// true for a missing meta-descriptions flag.
func (d ProfileDraft) WithSEODefaults() ProfileDraft {
	density := DefaultKeywordDensity
	meta := DefaultMetaDescriptions
	if d.ParametresSEO != nil {
		if v := d.ParametresSEO.DensiteMotsCles; v != nil && *v != 0 {
			density = *v
		}
		if v := d.ParametresSEO.MetaDescriptions; v != nil {
			meta = *v
		}
	}
	d.ParametresSEO = &SEOParamsDraft{DensiteMotsCles: &density, MetaDescriptions: &meta}
	if d.TraitsPersonnalite == nil {
		d.TraitsPersonnalite = []string{}
	}
	return d
}

// Profile materialises the draft for userID. Absent strings become empty;
// callers validate first.
func (d ProfileDraft) Profile(userID string) WriterProfile {
	p := WriterProfile{
		UserID:                    userID,
		NomProfil:                 deref(d.NomProfil),
		SpecialiteThematique:      deref(d.SpecialiteThematique),
		StyleEcriture:             deref(d.StyleEcriture),
		Ton:                       deref(d.Ton),
		NiveauLangage:             deref(d.NiveauLangage),
		TraitsPersonnalite:        d.TraitsPersonnalite,
		RecommandationsActives:    d.RecommandationsActives,
		ParametresRecommandations: d.ParametresRecommandations,
	}
	if p.TraitsPersonnalite == nil {
		p.TraitsPersonnalite = []string{}
	}
	if d.ParametresSEO != nil {
		if d.ParametresSEO.DensiteMotsCles != nil {
			p.ParametresSEO.DensiteMotsCles = *d.ParametresSEO.DensiteMotsCles
		}
		if d.ParametresSEO.MetaDescriptions != nil {
			p.ParametresSEO.MetaDescriptions = *d.ParametresSEO.MetaDescriptions
		}
	}
	return p
}

// ValidateDraft checks a draft about to become a new or rewritten profile.
// Checks run in form order and the first failure is reported.
func ValidateDraft(userID string, d ProfileDraft) error {
	checks := []struct {
		field   string
		ok      bool
		message string
	}{
		{"user_id", userID != "", "Utilisateur non connecté"},
		{"nom_profil", present(d.NomProfil), "Le nom du profil est requis"},
		{"specialite_thematique", present(d.SpecialiteThematique), "La spécialité thématique est requise"},
		{"style_ecriture", present(d.StyleEcriture), "Le style d'écriture est requis"},
		{"ton", present(d.Ton), "Le ton est requis"},
		{"niveau_langage", present(d.NiveauLangage), "Le niveau de langage est requis"},
		{"traits_personnalite", len(d.TraitsPersonnalite) > 0, "Au moins un trait de personnalité est requis"},
		{"parametres_seo", d.ParametresSEO != nil, "Les paramètres SEO sont requis"},
	}
	for _, c := range checks {
		if !c.ok {
			return &ValidationError{Field: c.field, Message: c.message}
		}
	}
	return nil
}

// ValidateChanges rejects a partial update that would blank a required
// field. Absent fields are fine.
func ValidateChanges(d ProfileDraft) error {
	fields := []struct {
		field string
		value *string
	}{
		{"nom_profil", d.NomProfil},
		{"specialite_thematique", d.SpecialiteThematique},
		{"style_ecriture", d.StyleEcriture},
		{"ton", d.Ton},
		{"niveau_langage", d.NiveauLangage},
	}
	for _, f := range fields {
		if f.value != nil && !present(f.value) {
			return MissingField(f.field)
		}
	}
	if d.TraitsPersonnalite != nil && len(d.TraitsPersonnalite) == 0 {
		return MissingField("traits_personnalite")
	}
	return nil
}

// Duplicate returns a creation draft copied from p, renamed "<nom> (copie)".
func Duplicate(p WriterProfile) ProfileDraft {
	d := DraftFromProfile(p)
	d.NomProfil = strPtr(p.NomProfil + " (copie)")
	return d
}

// Matches reports whether query appears, case-insensitively, in the profile
// name or thematic specialty.
func (p WriterProfile) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.NomProfil), q) ||
		strings.Contains(strings.ToLower(p.SpecialiteThematique), q)
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

func strPtr(s string) *string {
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
