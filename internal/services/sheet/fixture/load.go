package fixture

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	apperrors "github.com/louisbranch/voidsheet/internal/platform/errors"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/actor"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/pipeline"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/record"
)

// recordNamespace seeds deterministic ids for records authored without one.
var recordNamespace = uuid.MustParse("6f1c3c2e-9a4b-4d7e-8f51-2b8e0c7a9d10")

// Format is a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Sheet is a loaded actor document ready for the pipeline.
type Sheet struct {
	Actor   actor.Actor
	Records record.Collection
	Combat  pipeline.Combat
}

// FormatForPath picks the format from a file extension; anything other than
// .json is read as YAML.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// LoadFile reads and parses an actor document.
func LoadFile(path string) (Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Sheet{}, apperrors.WrapWithMetadata(apperrors.CodeDocumentReadFail, "read actor document", map[string]string{
			"Path": path,
		}, err)
	}
	return Parse(data, FormatForPath(path))
}

// Parse decodes an actor document.
func Parse(data []byte, format Format) (Sheet, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Sheet{}, apperrors.New(apperrors.CodeDocumentEmpty, "actor document is empty")
	}
	var doc Document
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	default:
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return Sheet{}, apperrors.Wrap(apperrors.CodeDocumentInvalid, "decode actor document", err)
	}
	return FromDocument(doc)
}

// FromDocument converts a decoded document. Only the actor kind and unknown
// characteristic names are rejected; every other malformed value degrades
// to its default.
func FromDocument(doc Document) (Sheet, error) {
	kind, err := actor.ParseKind(doc.Kind)
	if err != nil {
		return Sheet{}, err
	}
	id := strings.TrimSpace(doc.ID)
	if id == "" {
		id = uuid.NewSHA1(recordNamespace, []byte("actor:"+doc.Name)).String()
	}

	a := actor.New(id, doc.Name, kind)
	for name, cd := range doc.Characteristics {
		key, ok := actor.LookupCharacteristic(name)
		if !ok {
			return Sheet{}, apperrors.WithMetadata(apperrors.CodeDocumentInvalid,
				fmt.Sprintf("unknown characteristic %q", name),
				map[string]string{"Characteristic": name})
		}
		c := actor.NewCharacteristic(key, cd.Base.Int())
		c.Advance = cd.Advance.Int()
		c.Modifier = cd.Modifier.Int()
		c.Unnatural = cd.Unnatural.Int()
		c.Cost = cd.Cost.Int()
		a.Characteristics[key] = c
	}
	for key, sd := range doc.Skills {
		a.Skills[key] = skillFromDocument(key, sd)
	}
	if doc.Initiative.Characteristic != "" {
		a.Initiative.Characteristic = doc.Initiative.Characteristic
	}
	a.Initiative.Base = doc.Initiative.Base.Int()
	a.Size = doc.Size.IntOr(actor.DefaultSize)
	a.Psy = actor.Psy{
		Rating:    doc.Psy.Rating.Int(),
		Sustained: doc.Psy.Sustained.Int(),
		Cost:      doc.Psy.Cost.Int(),
		Class:     doc.Psy.Class,
	}
	a.Experience = actor.Experience{Total: doc.Experience.Total.Int(), Used: doc.Experience.Used.Int()}
	a.Fatigue = actor.Fatigue{Value: doc.Fatigue.Int()}
	a.Wounds = actor.Resource{Value: doc.Wounds.Value.Int(), Max: doc.Wounds.Max.Int()}
	a.Fate = actor.Resource{Value: doc.Fate.Value.Int(), Max: doc.Fate.Max.Int()}
	a.Horde = actor.Horde{Enabled: doc.Horde.Enabled, Current: doc.Horde.Current.Int(), Max: doc.Horde.Max.Int()}
	a.Backpack = actor.Backpack{
		Equipped:   doc.Backpack.Equipped,
		CombatVest: doc.Backpack.CombatVest,
		Max:        doc.Backpack.Max.Float(),
	}

	records := make([]record.Record, 0, len(doc.Items))
	for i, item := range doc.Items {
		r := record.FromStorage(item)
		if r.ID == "" {
			r.ID = RecordID(id, i, r.Name)
		}
		records = append(records, r)
	}
	collection := record.NewCollection(records...)
	if doc.RecordsLoaded != nil && !*doc.RecordsLoaded {
		collection = record.Collection{}
	}

	return Sheet{
		Actor:   a,
		Records: collection,
		Combat:  pipeline.Combat{AlreadyHit: doc.Combat.AlreadyHit},
	}, nil
}

// RecordID derives a stable id for a record authored without one.
func RecordID(actorID string, index int, name string) string {
	return uuid.NewSHA1(recordNamespace, []byte(actorID+"/"+strconv.Itoa(index)+"/"+name)).String()
}

func skillFromDocument(key string, sd SkillDocument) actor.Skill {
	label := sd.Label
	if label == "" {
		label = key
	}
	s := actor.Skill{
		Label:          label,
		Characteristic: sd.Characteristic,
		Trained:        sd.Trained,
		Plus10:         sd.Plus10,
		Plus20:         sd.Plus20,
		Bonus:          sd.Bonus.Int(),
		Cost:           sd.Cost.Int(),
		Advanced:       sd.Advanced,
	}
	for _, ed := range sd.Entries {
		s.Entries = append(s.Entries, actor.SpecializationEntry{
			Name:           ed.Name,
			Characteristic: ed.Characteristic,
			Trained:        ed.Trained,
			Plus10:         ed.Plus10,
			Plus20:         ed.Plus20,
			Bonus:          ed.Bonus.Int(),
			Cost:           ed.Cost.Int(),
		})
	}
	return s
}
