package admxml

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"admkit/internal/adm"
	"admkit/internal/timecode"
)

func formatString(v string) string { return v }

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func formatInt(v int) string { return strconv.Itoa(v) }

func formatTime(v time.Duration) string { return timecode.Format(v) }

func formatBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func parseString(text string) (string, error) { return text, nil }

func parseTime(text string) (time.Duration, error) { return timecode.Parse(strings.TrimSpace(text)) }

func parseFloat(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", text)
	}
	return v, nil
}

func parseInt(text string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", text)
	}
	return v, nil
}

func parseBool(text string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", text)
	}
}

func elementText(el *etree.Element) string {
	return strings.TrimSpace(el.Text())
}

func parseGain(el *etree.Element) (adm.Gain, error) {
	v, err := parseFloat(elementText(el))
	if err != nil {
		return adm.Gain{}, err
	}
	switch unit := el.SelectAttrValue("gainUnit", "linear"); unit {
	case "linear":
		return adm.LinearGain(v), nil
	case "dB":
		return adm.DecibelGain(v), nil
	default:
		return adm.Gain{}, fmt.Errorf("unknown gainUnit %q", unit)
	}
}

func formatGain(el *etree.Element, g adm.Gain) {
	el.SetText(formatFloat(g.Value))
	if g.Decibel {
		el.CreateAttr("gainUnit", "dB")
	}
}

// textOf adapts a string parser to element text.
func textOf[T any](parse func(string) (T, error)) func(*etree.Element) (T, error) {
	return func(el *etree.Element) (T, error) {
		return parse(elementText(el))
	}
}

// setText adapts a string formatter to element text.
func setText[T any](format func(T) string) func(*etree.Element, T) error {
	return func(el *etree.Element, v T) error {
		el.SetText(format(v))
		return nil
	}
}
