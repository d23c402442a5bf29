package fonts

import "testing"

func TestFace(t *testing.T) {
	for _, style := range []Style{Regular, Bold, Italic} {
		face, err := Face(style, 16)
		if err != nil {
			t.Fatalf("Face(%d) error = %v", style, err)
		}
		if face.Metrics().Height <= 0 {
			t.Errorf("Face(%d) has zero height", style)
		}
	}
}

func TestFace_UnknownStyle(t *testing.T) {
	if _, err := Face(Style(42), 12); err == nil {
		t.Error("Face() should reject unknown styles")
	}
}
