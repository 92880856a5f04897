package e2e

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/ayusman/airtouch/internal/detector"
	"github.com/ayusman/airtouch/internal/geom"
)

//go:embed testdata/*.json
var tracesFS embed.FS

// trace is a recorded detector output. Points are camera pixels; a null
// frame means no hand was detected.
type trace struct {
	Name   string       `json:"name"`
	Camera geom.Size    `json:"camera"`
	Frames []*tracePose `json:"frames"`
}

type tracePose struct {
	Index [2]int `json:"index"`
	Thumb [2]int `json:"thumb"`
}

// loadTrace loads testdata/<name>.json.
func loadTrace(name string) (*trace, error) {
	data, err := tracesFS.ReadFile("testdata/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("load trace %s: %w", name, err)
	}

	var tr trace
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, fmt.Errorf("decode trace %s: %w", name, err)
	}
	if tr.Camera.W <= 0 || tr.Camera.H <= 0 {
		return nil, fmt.Errorf("trace %s: camera size missing", name)
	}
	return &tr, nil
}

// hands converts the trace into a detector script. Pixel positions are
// normalized to the pixel centre so truncation lands back on them.
func (tr *trace) hands() []*detector.HandLandmarks {
	hands := make([]*detector.HandLandmarks, len(tr.Frames))
	for i, pose := range tr.Frames {
		if pose == nil {
			continue
		}
		ix, iy := tr.norm(pose.Index)
		tx, ty := tr.norm(pose.Thumb)
		hands[i] = detector.HandAt(ix, iy, tx-ix, ty-iy)
	}
	return hands
}

func (tr *trace) norm(p [2]int) (float64, float64) {
	return (float64(p[0]) + 0.5) / float64(tr.Camera.W),
		(float64(p[1]) + 0.5) / float64(tr.Camera.H)
}
