// Package meditation is an in-process library of guided meditations.
// It is not persisted: every process starts from the same defaults.
package meditation

import (
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jwalitptl/practice-api/internal/model"
	apperrors "github.com/jwalitptl/practice-api/pkg/errors"
	"github.com/jwalitptl/practice-api/pkg/validator"
)

type Library struct {
	mu        sync.RWMutex
	items     []model.Meditation
	validator validator.Validator
}

// NewLibrary returns a library seeded with Defaults.
func NewLibrary(v validator.Validator) *Library {
	return &Library{items: Defaults(), validator: v}
}

func (l *Library) List() []model.Meditation {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.items)
}

func (l *Library) Get(id string) (*model.Meditation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	i := l.index(id)
	if i < 0 {
		return nil, apperrors.NewNotFound("meditation", nil)
	}
	m := l.items[i]
	return &m, nil
}

func (l *Library) Add(m model.Meditation) (*model.Meditation, error) {
	if err := l.validator.Validate(m); err != nil {
		return nil, err
	}
	m.ID = uuid.NewString()
	m.Title = strings.TrimSpace(m.Title)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, m)
	return &m, nil
}

// Update replaces every field but the id.
func (l *Library) Update(id string, m model.Meditation) (*model.Meditation, error) {
	if err := l.validator.Validate(m); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(id)
	if i < 0 {
		return nil, apperrors.NewNotFound("meditation", nil)
	}
	m.ID = id
	m.Title = strings.TrimSpace(m.Title)
	l.items[i] = m
	return &m, nil
}

func (l *Library) Remove(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(id)
	if i < 0 {
		return apperrors.NewNotFound("meditation", nil)
	}
	l.items = slices.Delete(l.items, i, i+1)
	return nil
}

// index must be called with mu held.
func (l *Library) index(id string) int {
	return slices.IndexFunc(l.items, func(m model.Meditation) bool { return m.ID == id })
}

func Defaults() []model.Meditation {
	return []model.Meditation{
		{
			ID:          "atencion-plena",
			Title:       "Meditación de Atención Plena",
			Description: "Enfócate en tu respiración y encuentra la calma en el momento presente.",
			Duration:    "10 min",
			Content: "Siéntate en una posición cómoda, con la espalda recta pero no rígida. Cierra suavemente los ojos. " +
				"Lleva tu atención a tu respiración y obsérvala sin intentar cambiarla. Si tu mente se distrae, " +
				"redirige tu atención con amabilidad. Permanece así unos minutos, anclado en el presente.",
		},
		{
			ID:          "montana",
			Title:       "Visualización de la Montaña",
			Description: "Conéctate con tu fuerza interior y estabilidad a través de esta visualización.",
			Duration:    "15 min",
			Content: "Encuentra una postura cómoda e imagina una majestuosa montaña, de base ancha y sólida. " +
				"Siente que tú eres esa montaña. Aunque los pensamientos pasen como nubes, tú permaneces " +
				"fuerte y estable. Conecta con esa sensación de solidez y permanencia.",
		},
		{
			ID:          "escaneo-corporal",
			Title:       "Escaneo Corporal para la Relajación",
			Description: "Libera la tensión de tu cuerpo, parte por parte, para una relajación profunda.",
			Duration:    "20 min",
			Content: "Acuéstate cómodamente y cierra los ojos. Lleva tu atención a los dedos de tus pies y, con cada " +
				"exhalación, libera la tensión de esa zona. Sube lentamente por todo el cuerpo hasta la cara. " +
				"Al finalizar, siente tu cuerpo completamente relajado y en paz.",
		},
		{
			ID:          "amor-y-bondad",
			Title:       "Amor y Bondad",
			Description: "Cultiva sentimientos de amor y compasión hacia ti y hacia los demás.",
			Duration:    "12 min",
			Content: "Siéntate cómodamente con una mano sobre tu corazón. Repite en silencio: \"Que yo esté bien. " +
				"Que yo sea feliz. Que yo esté en paz\". Extiende esos deseos a un ser querido, a tus amigos, " +
				"a personas neutrales y finalmente a todos los seres.",
		},
	}
}
