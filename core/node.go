package core

import (
	"encoding/json"
	"fmt"
	"io"
)

// StaticNode is a TimelineNode backed by plain strings. It is the format of
// node dumps produced by external collectors (one JSON object per entry).
type StaticNode struct {
	Divider     bool   `json:"divider,omitempty"`
	Label       string `json:"label,omitempty"`
	Event       bool   `json:"event,omitempty"`
	TitleText   string `json:"title,omitempty"`
	SubtitleRaw string `json:"subtitle,omitempty"`
	AmountRaw   string `json:"amount,omitempty"`
	IsCanceled  bool   `json:"canceled,omitempty"`
}

func (n StaticNode) IsDivider() bool      { return n.Divider }
func (n StaticNode) DividerLabel() string { return n.Label }
func (n StaticNode) IsEvent() bool        { return n.Event }
func (n StaticNode) Title() string        { return n.TitleText }
func (n StaticNode) Subtitle() string     { return n.SubtitleRaw }
func (n StaticNode) Amount() string       { return n.AmountRaw }
func (n StaticNode) Canceled() bool       { return n.IsCanceled }

// DividerNode builds a divider entry with the given label.
func DividerNode(label string) StaticNode {
	return StaticNode{Divider: true, Label: label}
}

// EventNode builds an event entry from raw title, subtitle and amount text.
func EventNode(title, subtitle, amount string) StaticNode {
	return StaticNode{Event: true, TitleText: title, SubtitleRaw: subtitle, AmountRaw: amount}
}

// DecodeNodes reads a JSON array of StaticNode from r.
func DecodeNodes(r io.Reader) ([]TimelineNode, error) {
	var raw []StaticNode
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding node dump: %w", err)
	}

	nodes := make([]TimelineNode, len(raw))
	for i, n := range raw {
		nodes[i] = n
	}
	return nodes, nil
}

// Freeze copies any TimelineNode into a StaticNode.
func Freeze(n TimelineNode) StaticNode {
	return StaticNode{
		Divider:     n.IsDivider(),
		Label:       n.DividerLabel(),
		Event:       n.IsEvent(),
		TitleText:   n.Title(),
		SubtitleRaw: n.Subtitle(),
		AmountRaw:   n.Amount(),
		IsCanceled:  n.Canceled(),
	}
}

// EncodeNodes writes nodes as an indented JSON array that DecodeNodes reads back.
func EncodeNodes(w io.Writer, nodes []TimelineNode) error {
	frozen := make([]StaticNode, len(nodes))
	for i, n := range nodes {
		frozen[i] = Freeze(n)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(frozen); err != nil {
		return fmt.Errorf("encoding node dump: %w", err)
	}
	return nil
}

var _ TimelineNode = StaticNode{}
