package sheet

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	apperrors "github.com/louisbranch/voidsheet/internal/platform/errors"
	"github.com/louisbranch/voidsheet/internal/services/sheet/app"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/actor"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/pipeline"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/record"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/rules"
	"github.com/louisbranch/voidsheet/internal/services/sheet/storage"
)

// renderer writes command output as styled text or JSON.
type renderer struct {
	out     io.Writer
	json    bool
	printer *message.Printer

	title   lipgloss.Style
	section lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	warn    lipgloss.Style
	muted   lipgloss.Style
}

func newRenderer(out io.Writer, lang, output string) *renderer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	lg := lipgloss.NewRenderer(out)
	return &renderer{
		out:     out,
		json:    output == OutputJSON,
		printer: message.NewPrinter(tag),
		title:   lg.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		section: lg.NewStyle().Bold(true).Underline(true),
		label:   lg.NewStyle().Width(18),
		value:   lg.NewStyle().Foreground(lipgloss.Color("10")),
		warn:    lg.NewStyle().Foreground(lipgloss.Color("11")),
		muted:   lg.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (r *renderer) writeJSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *renderer) line(label string, format string, args ...any) {
	fmt.Fprintln(r.out, r.label.Render(label)+r.value.Render(r.printer.Sprintf(format, args...)))
}

func (r *renderer) heading(text string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.section.Render(text))
}

func (r *renderer) derived(result app.Result) error {
	if r.json {
		var snapshot any
		if err := json.Unmarshal(result.JSON, &snapshot); err != nil {
			return err
		}
		return r.writeJSON(snapshot)
	}
	d := result.Derived
	fmt.Fprintln(r.out, r.title.Render(fmt.Sprintf("%s (%s)", d.Name, d.Kind)))
	fmt.Fprintln(r.out, r.muted.Render(fmt.Sprintf("profile %s, rules %s, fingerprint %.12s", d.Profile, d.RulesVersion, result.Fingerprint)))

	r.heading("Characteristics")
	for _, key := range actor.CharacteristicKeys {
		c, ok := d.Characteristics[key]
		if !ok {
			continue
		}
		r.line(c.Label, "%d (bonus %d)", c.Total, c.Bonus)
	}

	if len(d.Skills) > 0 {
		r.heading("Skills")
		keys := make([]string, 0, len(d.Skills))
		for key := range d.Skills {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		for _, key := range keys {
			s := d.Skills[key]
			label := s.Label
			if label == "" {
				label = key
			}
			if s.Advanced {
				r.line(label, "%d %s", s.Current, r.muted.Render("(advanced)"))
				continue
			}
			r.line(label, "%d", s.Current)
		}
	}

	r.heading("Combat")
	r.line("Initiative", "%s", d.Initiative.Formula)
	r.line("Wounds", "%d / %d", d.Resources.Wounds.Value, d.Resources.Wounds.Max)
	r.line("Fate", "%d / %d", d.Resources.Fate.Value, d.Resources.Fate.Max)
	if d.Movement != nil {
		r.line("Movement", "%d / %d / %d / %d", d.Movement.Half, d.Movement.Full, d.Movement.Charge, d.Movement.Run)
	}
	if d.Psy != nil {
		r.line("Psy rating", "%d", d.Psy.Current)
	}
	if d.Horde != nil && d.Horde.Enabled {
		r.line("Magnitude", "%d / %d (%s)", d.Horde.Current, d.Horde.Max, d.Horde.State)
		r.line("Horde damage", "x%v", d.Horde.DamageMultiplier)
	}

	if d.Armour != nil {
		r.heading("Armour")
		for _, loc := range record.Locations {
			r.line(rules.ArmourLocationLabel(loc), "%d", d.Armour.At(loc).Total)
		}
	}

	if d.Encumbrance != nil {
		r.heading("Encumbrance")
		state := "ok"
		if d.Encumbrance.Encumbered {
			state = r.warn.Render("encumbered")
		}
		r.line("Carried", "%v / %v kg %s", d.Encumbrance.Value, d.Encumbrance.Max, state)
		if d.Encumbrance.Backpack.Equipped {
			r.line("Backpack", "%v / %v kg", d.Encumbrance.Backpack.Value, d.Encumbrance.Backpack.Max)
		}
	}

	if d.Experience != nil {
		r.heading("Experience")
		r.line("Total", "%d", d.Experience.Total)
		r.line("Spent", "%d", d.Experience.Used)
		r.line("Available", "%d", d.Experience.Available)
		r.line("Calculated", "%d", d.Experience.CalculatedTotal)
	}

	if len(d.Aptitudes) > 0 {
		r.heading("Aptitudes")
		fmt.Fprintln(r.out, strings.Join(d.Aptitudes, ", "))
	}

	if len(d.Diagnostics) > 0 {
		r.heading("Diagnostics")
		for _, diag := range d.Diagnostics {
			text := fmt.Sprintf("%s %s on %s", diag.Code, diag.Key, diag.RecordName)
			if diag.Suggestion != "" {
				text += fmt.Sprintf(" (did you mean %s?)", diag.Suggestion)
			}
			fmt.Fprintln(r.out, r.warn.Render(text))
		}
	}
	return nil
}

func (r *renderer) bindings(b pipeline.Bindings) error {
	if r.json {
		return r.writeJSON(b)
	}
	for _, key := range b.Keys() {
		r.line(key, "%v", b[key])
	}
	return nil
}

func (r *renderer) explanation(e rules.Explanation) error {
	if r.json {
		return r.writeJSON(e)
	}
	fmt.Fprintln(r.out, r.title.Render(r.printer.Sprintf("%s = %d", e.Target, e.Value)))
	for i, step := range e.Steps {
		fmt.Fprintf(r.out, "%2d. %s %s\n", i+1, step.Message, r.muted.Render(step.Code))
		if len(step.Data) == 0 {
			continue
		}
		keys := make([]string, 0, len(step.Data))
		for key := range step.Data {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		for _, key := range keys {
			fmt.Fprintf(r.out, "    %s: %v\n", key, step.Data[key])
		}
	}
	return nil
}

func (r *renderer) projections(list []storage.Projection) error {
	if r.json {
		type entry struct {
			ActorID      string `json:"actorId"`
			Name         string `json:"name"`
			Kind         string `json:"kind"`
			RulesVersion string `json:"rulesVersion"`
			Fingerprint  string `json:"fingerprint"`
		}
		out := make([]entry, 0, len(list))
		for _, p := range list {
			out = append(out, entry{ActorID: p.ActorID, Name: p.Name, Kind: p.Kind, RulesVersion: p.RulesVersion, Fingerprint: p.Fingerprint})
		}
		return r.writeJSON(out)
	}
	if len(list) == 0 {
		fmt.Fprintln(r.out, r.muted.Render("no stored projections"))
		return nil
	}
	for _, p := range list {
		r.line(p.ActorID, "%s (%s) %.12s", p.Name, p.Kind, p.Fingerprint)
	}
	return nil
}

func (r *renderer) projection(p storage.Projection) error {
	if r.json {
		return r.writeJSON(json.RawMessage(p.Derived))
	}
	fmt.Fprintln(r.out, r.title.Render(fmt.Sprintf("%s (%s)", p.Name, p.Kind)))
	fmt.Fprintln(r.out, r.muted.Render(fmt.Sprintf("rules %s, fingerprint %.12s, updated %s", p.RulesVersion, p.Fingerprint, p.UpdatedAt.Format("2006-01-02 15:04"))))
	return r.bindings(pipeline.Bindings(p.Bindings))
}

func (r *renderer) deleted(actorID string) error {
	if r.json {
		return r.writeJSON(map[string]string{"deleted": actorID})
	}
	fmt.Fprintln(r.out, r.muted.Render("deleted "+actorID))
	return nil
}

func (r *renderer) scenarioPassed(path string) error {
	if r.json {
		return r.writeJSON(map[string]string{"scenario": path, "status": "ok"})
	}
	fmt.Fprintln(r.out, r.muted.Render("scenario ok "+path))
	return nil
}

func (r *renderer) rules() error {
	meta := rules.RulesVersion()
	if r.json {
		return r.writeJSON(meta)
	}
	fmt.Fprintln(r.out, r.title.Render(fmt.Sprintf("%s %s", meta.System, meta.RulesVersion)))
	r.line("Bonus", "%s", meta.BonusFormula)
	r.line("Skill", "%s", meta.SkillFormula)
	r.line("Armour", "%s", meta.ArmourFormula)
	r.line("Natural armour", "%s", strings.Join(meta.NaturalArmour, ", "))
	r.line("Combat keys", "%s", strings.Join(meta.CombatKeys, ", "))
	r.heading("Carrying capacity (SB+TB)")
	for i, kg := range meta.CarryingTable {
		r.line(fmt.Sprintf("%d", i), "%v kg", kg)
	}
	return nil
}

func (r *renderer) failure(err error) {
	fmt.Fprintln(r.out, r.warn.Render("error: "+apperrors.Describe(err)))
}
