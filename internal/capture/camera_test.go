package capture

import "testing"

func TestNewCamera_Defaults(t *testing.T) {
	cam := NewCamera(Options{DeviceID: 1})

	if got := cam.FPS(); got != DefaultFPS {
		t.Errorf("FPS() = %d, want %d", got, DefaultFPS)
	}
	if w, h := cam.Size(); w != DefaultWidth || h != DefaultHeight {
		t.Errorf("Size() = %dx%d, want %dx%d", w, h, DefaultWidth, DefaultHeight)
	}
	if cam.IsOpen() {
		t.Error("camera should not be open before Open()")
	}
}

func TestNewCamera_Options(t *testing.T) {
	cam := NewCamera(Options{Width: 1280, Height: 720, FPS: 30, Mirror: true})

	if got := cam.FPS(); got != 30 {
		t.Errorf("FPS() = %d, want 30", got)
	}
	if w, h := cam.Size(); w != 1280 || h != 720 {
		t.Errorf("Size() = %dx%d, want 1280x720", w, h)
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(Options{})

	tests := []struct {
		name string
		fps  int
		want int
	}{
		{"raise", 30, 30},
		{"lower", 1, 1},
		{"zero keeps previous", 0, 1},
		{"negative keeps previous", -4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam.SetFPS(tt.fps)
			if got := cam.FPS(); got != tt.want {
				t.Errorf("FPS() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCamera_ReadFrame_NotOpen(t *testing.T) {
	cam := NewCamera(Options{})

	if _, err := cam.ReadFrame(); err != ErrCameraNotOpen {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
	if err := cam.Close(); err != nil {
		t.Errorf("Close() on a closed camera = %v", err)
	}
}
