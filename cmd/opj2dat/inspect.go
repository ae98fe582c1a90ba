package main

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/yamitzky/opj-go/opj"
	"gopkg.in/yaml.v3"
)

type projectSummary struct {
	File         string             `yaml:"file"`
	Version      string             `yaml:"version"`
	Dialect      string             `yaml:"dialect"`
	Status       string             `yaml:"status"`
	Spreadsheets []tableSummary     `yaml:"spreadsheets,omitempty"`
	Workbooks    []workbookSummary  `yaml:"workbooks,omitempty"`
	Matrices     []matrixSummary    `yaml:"matrices,omitempty"`
	Functions    []functionSummary  `yaml:"functions,omitempty"`
	Graphs       []graphSummary     `yaml:"graphs,omitempty"`
	Notes        []string           `yaml:"notes,omitempty"`
	Parameters   map[string]float64 `yaml:"parameters,omitempty"`
	Tree         *treeSummary       `yaml:"tree,omitempty"`
	Diagnostics  []string           `yaml:"diagnostics,omitempty"`
}

type tableSummary struct {
	Name    string          `yaml:"name"`
	Label   string          `yaml:"label,omitempty"`
	Rows    int             `yaml:"rows"`
	Columns []columnSummary `yaml:"columns"`
}

type columnSummary struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Rows    int    `yaml:"rows"`
	Formula string `yaml:"formula,omitempty"`
	Comment string `yaml:"comment,omitempty"`
}

type workbookSummary struct {
	Name   string         `yaml:"name"`
	Sheets []tableSummary `yaml:"sheets"`
}

type matrixSummary struct {
	Name    string `yaml:"name"`
	Rows    int    `yaml:"rows"`
	Cols    int    `yaml:"cols"`
	Formula string `yaml:"formula,omitempty"`
}

type functionSummary struct {
	Name    string  `yaml:"name"`
	Kind    string  `yaml:"kind"`
	Formula string  `yaml:"formula"`
	Begin   float64 `yaml:"begin"`
	End     float64 `yaml:"end"`
	Points  int     `yaml:"points"`
}

type graphSummary struct {
	Name      string         `yaml:"name"`
	Truncated bool           `yaml:"truncated,omitempty"`
	Layers    []layerSummary `yaml:"layers"`
}

type layerSummary struct {
	Curves []string `yaml:"curves,omitempty"`
	Texts  []string `yaml:"texts,omitempty"`
}

type treeSummary struct {
	Name     string         `yaml:"name"`
	Kind     string         `yaml:"kind,omitempty"`
	Children []*treeSummary `yaml:"children,omitempty"`
}

func newInspectCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Print a YAML summary of each project",
		Args:  minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			for _, path := range args {
				doc, err := g.open(cmd, path, cmd.InOrStdin())
				if err != nil {
					return err
				}
				if err := enc.Encode(summarize(doc)); err != nil {
					return err
				}
			}
			return enc.Close()
		},
	}
}

func summarize(doc *opj.Document) *projectSummary {
	v := doc.Version()
	status := opj.StatusSuccess
	for _, d := range doc.Diagnostics() {
		if d.Severity >= opj.SeverityError {
			status = opj.StatusPartial
		}
	}
	s := &projectSummary{
		File:    doc.Filename(),
		Version: opj.VersionTextFromNum(v.Normalized),
		Dialect: v.Dialect.String(),
		Status:  status.String(),
	}
	for _, sp := range doc.Spreadsheets() {
		s.Spreadsheets = append(s.Spreadsheets, summarizeTable(sp.Name, sp.Label, sp.Columns))
	}
	for _, wb := range doc.Workbooks() {
		w := workbookSummary{Name: wb.Name}
		for _, sheet := range wb.Sheets {
			w.Sheets = append(w.Sheets, summarizeTable("", "", sheet.Columns))
		}
		s.Workbooks = append(s.Workbooks, w)
	}
	for _, m := range doc.Matrices() {
		s.Matrices = append(s.Matrices, matrixSummary{Name: m.Name, Rows: m.Rows, Cols: m.Cols, Formula: m.Command})
	}
	for _, f := range doc.Functions() {
		s.Functions = append(s.Functions, functionSummary{
			Name:    f.Name,
			Kind:    f.Kind.String(),
			Formula: f.Formula,
			Begin:   f.Begin,
			End:     f.End,
			Points:  f.Points,
		})
	}
	for _, gr := range doc.Graphs() {
		gs := graphSummary{Name: gr.Name, Truncated: gr.Truncated}
		for _, layer := range gr.Layers {
			var ls layerSummary
			for _, c := range layer.Curves {
				ls.Curves = append(ls.Curves, curveLabel(c))
			}
			for _, t := range layer.Texts {
				ls.Texts = append(ls.Texts, t.Text)
			}
			gs.Layers = append(gs.Layers, ls)
		}
		s.Graphs = append(s.Graphs, gs)
	}
	for _, n := range doc.Notes() {
		s.Notes = append(s.Notes, n.Name)
	}
	if params := doc.Parameters(); len(params) > 0 {
		s.Parameters = make(map[string]float64, len(params))
		for _, p := range params {
			s.Parameters[p.Name] = p.Value
		}
	}
	if root := doc.Tree(); root != nil {
		s.Tree = summarizeTree(root)
	}
	for _, d := range doc.Diagnostics() {
		s.Diagnostics = append(s.Diagnostics, d.String())
	}
	return s
}

func summarizeTable(name, label string, columns []*opj.Column) tableSummary {
	t := tableSummary{Name: name, Label: label}
	for _, c := range columns {
		if c.NumRows() > t.Rows {
			t.Rows = c.NumRows()
		}
		t.Columns = append(t.Columns, columnSummary{
			Name:    c.Name,
			Type:    c.Type.String(),
			Rows:    c.NumRows(),
			Formula: c.Command,
			Comment: c.Comment,
		})
	}
	return t
}

func curveLabel(c *opj.Curve) string {
	label := c.Type.String() + " " + c.DataName
	if c.XColumn != "" {
		label += " " + c.XColumn + "/" + c.YColumn
	} else if c.YColumn != "" {
		label += " " + c.YColumn
	}
	return label
}

func summarizeTree(n *opj.TreeNode) *treeSummary {
	ts := &treeSummary{Name: n.Name}
	if n.Kind == opj.NodeObject {
		ts.Kind = n.ObjectKind.String()
	}
	for _, child := range n.Children {
		ts.Children = append(ts.Children, summarizeTree(child))
	}
	return ts
}

func newRecordsCmd(g *globals) *cobra.Command {
	var unnumbered, count bool
	cmd := &cobra.Command{
		Use:   "records FILE",
		Short: "List the primary records of a project",
		Args:  minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, path := range args {
				data, err := readInput(path, cmd.InOrStdin())
				if err != nil {
					return err
				}
				if err := dumpRecords(data, out, unnumbered, count); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&unnumbered, "unnumbered", "u", false, "omit record offsets")
	cmd.Flags().BoolVarP(&count, "count", "c", false, "print record counts per kind instead")
	return cmd
}

func dumpRecords(data []byte, out io.Writer, unnumbered, count bool) error {
	if count {
		return opj.CountRecords(data, out)
	}
	return opj.Dump(data, out, unnumbered)
}
