/*
 * annisgraph
 *
 * Copyright 2026 The annisgraph authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Snapshot save/restore (spec.md section 6): one directory per component, a
small YAML manifest naming each component's back-end, one compressed file
per internal container. Deterministic given the same in-memory state: the
manifest lists components in a stable sorted order and each component's
edges are written in a stable (src, tgt) sorted order.

Grounded on the teacher's wal package, which wraps a file in a
klauspost/compress/zstd encoder/decoder stream for durable, compressed
persistence; here the "log" is a one-shot full dump instead of an append
log, and gopkg.in/yaml.v3 is used for the small manifest document rather
than a bespoke text format.
*/
package corpus

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zstd"
	"github.com/krotik/annisgraph/annostore"
	"github.com/krotik/annisgraph/gs"
	"github.com/krotik/annisgraph/graphutil"
	"github.com/krotik/annisgraph/nodeid"
	"github.com/krotik/annisgraph/stringpool"
	"gopkg.in/yaml.v3"
)

const (
	manifestFile   = "manifest.yaml"
	poolFile       = "strings.bin.zst"
	annosFile      = "annotations.bin.zst"
	componentsRoot = "components"
	edgesFile      = "edges.bin.zst"
)

/*
manifestComponent is one entry of the snapshot manifest.
*/
type manifestComponent struct {
	Dir     string `yaml:"dir"`
	Type    int    `yaml:"type"`
	Layer   uint32 `yaml:"layer"`
	Name    uint32 `yaml:"name"`
	Backend string `yaml:"backend"`
}

/*
manifest is the top-level snapshot manifest.
*/
type manifest struct {
	Generation string              `yaml:"generation"`
	Components []manifestComponent `yaml:"components"`
}

type annoRecord struct {
	Node nodeid.ID
	NS   stringpool.ID
	Name stringpool.ID
	Val  stringpool.ID
}

type edgeRecord struct {
	Src, Tgt nodeid.ID
	Annos    []annostore.Annotation
}

/*
SaveSnapshot writes img to dir, creating it if necessary. Fails with
IoError on any filesystem or encoding failure.
*/
func SaveSnapshot(img *Image, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ioErr("create snapshot directory", err)
	}

	if err := writeCompressedGob(filepath.Join(dir, poolFile), img.Pool.Strings()); err != nil {
		return ioErr("write string pool", err)
	}

	if err := saveAnnotations(img, dir); err != nil {
		return err
	}

	m := manifest{Generation: img.Generation.String()}

	components := img.Graph.Components()
	sort.Slice(components, func(i, j int) bool { return componentLess(components[i], components[j]) })

	for i, c := range components {
		storage := img.Graph.Get(c)
		compDir := filepath.Join(componentsRoot, fmt.Sprintf("%04d", i))

		if err := os.MkdirAll(filepath.Join(dir, compDir), 0o755); err != nil {
			return ioErr("create component directory", err)
		}

		if err := saveComponentEdges(storage, filepath.Join(dir, compDir, edgesFile)); err != nil {
			return err
		}

		m.Components = append(m.Components, manifestComponent{
			Dir:     compDir,
			Type:    int(c.Type),
			Layer:   uint32(c.Layer),
			Name:    uint32(c.Name),
			Backend: storage.BackendName(),
		})
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return ioErr("marshal manifest", err)
	}

	if err := os.WriteFile(filepath.Join(dir, manifestFile), data, 0o644); err != nil {
		return ioErr("write manifest", err)
	}

	return nil
}

func componentLess(a, b gs.Component) bool {
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	if a.Layer != b.Layer {
		return a.Layer < b.Layer
	}
	return a.Name < b.Name
}

func saveAnnotations(img *Image, dir string) error {
	var records []annoRecord

	for _, key := range img.Annos.DistinctKeys() {
		for _, e := range img.Annos.EntriesForKey(key) {
			records = append(records, annoRecord{Node: e.Node, NS: key.NS, Name: key.Name, Val: e.Anno.Val})
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Node != records[j].Node {
			return records[i].Node < records[j].Node
		}
		if records[i].NS != records[j].NS {
			return records[i].NS < records[j].NS
		}
		return records[i].Name < records[j].Name
	})

	if err := writeCompressedGob(filepath.Join(dir, annosFile), records); err != nil {
		return ioErr("write annotation store", err)
	}
	return nil
}

func saveComponentEdges(storage gs.Storage, path string) error {
	edges := storage.Edges()

	records := make([]edgeRecord, 0, len(edges))
	for _, e := range edges {
		records = append(records, edgeRecord{Src: e.Src, Tgt: e.Tgt, Annos: e.Annos})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Src != records[j].Src {
			return records[i].Src < records[j].Src
		}
		return records[i].Tgt < records[j].Tgt
	})

	if err := writeCompressedGob(path, records); err != nil {
		return ioErr("write component edges", err)
	}
	return nil
}

/*
RestoreSnapshot loads an Image previously written by SaveSnapshot (spec.md
section 6). Fails with CorpusNotFound if dir holds no manifest, with
CorpusCorrupt if the manifest cannot be parsed or a component file it lists
cannot be read or decoded, and with IoError if the string pool or annotation
file cannot be read. The back-end name the manifest records for a component
is not checked: every component is loaded into its type's default back-end
and then re-optimized from its statistics.
*/
func RestoreSnapshot(dir string) (*Image, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, &graphutil.GraphError{Type: graphutil.ErrCorpusNotFound, Detail: err.Error()}
	}

	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &graphutil.GraphError{Type: graphutil.ErrCorpusCorrupt, Detail: fmt.Sprintf("manifest: %v", err)}
	}

	var strs []string
	if err := readCompressedGob(filepath.Join(dir, poolFile), &strs); err != nil {
		return nil, ioErr("read string pool", err)
	}
	pool := stringpool.LoadStrings(strs)

	annos := annostore.New()
	var annoRecs []annoRecord
	if err := readCompressedGob(filepath.Join(dir, annosFile), &annoRecs); err != nil {
		return nil, ioErr("read annotation store", err)
	}
	for _, r := range annoRecs {
		annos.Add(r.Node, annostore.Annotation{NS: r.NS, Name: r.Name, Val: r.Val})
	}
	annos.RecomputeStatistics()

	registry := gs.NewRegistry()
	for _, mc := range m.Components {
		c := gs.Component{Type: gs.ComponentType(mc.Type), Layer: stringpool.ID(mc.Layer), Name: stringpool.ID(mc.Name)}
		storage := registry.Get(c)

		var edgeRecs []edgeRecord
		if err := readCompressedGob(filepath.Join(dir, mc.Dir, edgesFile), &edgeRecs); err != nil {
			return nil, &graphutil.GraphError{Type: graphutil.ErrCorpusCorrupt,
				Detail: fmt.Sprintf("component %v (%v): %v", mc.Dir, mc.Backend, err)}
		}

		for _, e := range edgeRecs {
			storage.AddEdge(e.Src, e.Tgt, e.Annos)
		}
		storage.RecomputeStatistics()
	}
	registry.Optimize()

	return &Image{
		Generation: mustParseUUID(m.Generation),
		Pool:       pool,
		Annos:      annos,
		Graph:      registry,
		Reserved:   resolveReserved(pool),
	}, nil
}

func writeCompressedGob(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	defer enc.Close()

	return gob.NewEncoder(enc).Encode(v)
}

func readCompressedGob(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	return gob.NewDecoder(dec).Decode(v)
}

func ioErr(what string, err error) error {
	return &graphutil.GraphError{Type: graphutil.ErrIoError, Detail: fmt.Sprintf("%s: %v", what, err)}
}
