package landmarks

import "testing"

func TestFaceMeshShape(t *testing.T) {
	wantLengths := map[string]int{
		"silhouette":        37,
		"lipsUpperOuter":    11,
		"lipsLowerOuter":    10,
		"lipsUpperInner":    11,
		"lipsLowerInner":    11,
		"rightEyeUpper0":    7,
		"rightEyeLower0":    9,
		"rightEyebrowUpper": 5,
		"rightEyebrowLower": 5,
		"leftEyeUpper0":     7,
		"leftEyeLower0":     9,
		"leftEyebrowUpper":  5,
		"leftEyebrowLower":  5,
	}

	if len(FaceMesh) != len(wantLengths) {
		t.Fatalf("FaceMesh has %d contours, want %d", len(FaceMesh), len(wantLengths))
	}

	seen := map[string]bool{}
	for _, c := range FaceMesh {
		if seen[c.Name] {
			t.Errorf("duplicate contour name %q", c.Name)
		}
		seen[c.Name] = true

		want, ok := wantLengths[c.Name]
		if !ok {
			t.Errorf("unexpected contour %q", c.Name)
			continue
		}
		if len(c.Indices) != want {
			t.Errorf("contour %q has %d indices, want %d", c.Name, len(c.Indices), want)
		}
	}
}

func TestFaceMeshIndicesInRange(t *testing.T) {
	if err := FaceMesh.Validate(NumFaceLandmarks); err != nil {
		t.Fatalf("FaceMesh should validate against %d landmarks: %v", NumFaceLandmarks, err)
	}
}

func TestFaceMeshSilhouetteClosed(t *testing.T) {
	var silhouette Contour
	for _, c := range FaceMesh {
		if c.Name == "silhouette" {
			silhouette = c
			break
		}
	}
	if silhouette.Name == "" {
		t.Fatal("silhouette contour missing")
	}

	first := silhouette.Indices[0]
	last := silhouette.Indices[len(silhouette.Indices)-1]
	if first != last {
		t.Errorf("silhouette should close on itself: first %d, last %d", first, last)
	}
	if first != 10 {
		t.Errorf("silhouette anchor = %d, want 10", first)
	}
}

func TestFind(t *testing.T) {
	lips := FaceMesh.Find("lipsUpperOuter")
	if len(lips) != 11 {
		t.Fatalf("Find(lipsUpperOuter) returned %d indices, want 11", len(lips))
	}
	if lips[0] != 61 || lips[len(lips)-1] != 291 {
		t.Errorf("lipsUpperOuter runs %d..%d, want 61..291", lips[0], lips[len(lips)-1])
	}
	if got := FaceMesh.Find("nose"); got != nil {
		t.Errorf("Find(nose) = %v, want nil", got)
	}
}

func TestSegments(t *testing.T) {
	if got := FaceMesh.Segments(); got != 119 {
		t.Errorf("FaceMesh.Segments() = %d, want 119", got)
	}
	if got := Topology(nil).Segments(); got != 0 {
		t.Errorf("empty topology Segments() = %d, want 0", got)
	}
}

func TestTopologyValidate(t *testing.T) {
	tests := []struct {
		name      string
		topology  Topology
		numPoints int
		wantErr   bool
	}{
		{
			name:      "empty topology is drawable",
			topology:  nil,
			numPoints: 468,
			wantErr:   false,
		},
		{
			name:      "in-range chain",
			topology:  Topology{{Name: "chain", Indices: []int{0, 1, 2}}},
			numPoints: 3,
			wantErr:   false,
		},
		{
			name:      "index at numPoints rejected",
			topology:  Topology{{Name: "chain", Indices: []int{0, 3}}},
			numPoints: 3,
			wantErr:   true,
		},
		{
			name:      "negative index rejected",
			topology:  Topology{{Name: "chain", Indices: []int{-1, 0}}},
			numPoints: 3,
			wantErr:   true,
		},
		{
			name:      "single-index contour rejected",
			topology:  Topology{{Name: "dot", Indices: []int{1}}},
			numPoints: 3,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.topology.Validate(tt.numPoints)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%d) error = %v, wantErr %v", tt.numPoints, err, tt.wantErr)
			}
		})
	}
}
