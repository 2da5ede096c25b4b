package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"

	"github.com/ayusman/signspeak/internal/detector"
)

func TestMockCamera_Playback(t *testing.T) {
	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame1, &frame2}, false)

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Fatalf("ReadFrame() before Open error = %v, want ErrCameraNotOpen", err)
	}

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cam.Close()

	for i := 0; i < 2; i++ {
		f, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d error = %v", i, err)
		}
		f.Close()
	}

	// Third read should fail (no loop)
	if _, err := cam.ReadFrame(); !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames after all frames consumed, got %v", err)
	}
	if cam.Reads() != 2 {
		t.Errorf("Reads() = %d, want 2", cam.Reads())
	}
}

func TestMockCamera_Loop(t *testing.T) {
	cam := NewBlankCamera(320, 240)
	cam.Open()
	defer cam.Close()

	for i := 0; i < 5; i++ {
		f, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() iteration %d error = %v", i, err)
		}
		if f.Cols() != 320 || f.Rows() != 240 {
			t.Errorf("frame size = %dx%d, want 320x240", f.Cols(), f.Rows())
		}
		f.Close()
	}
}

func TestMockCamera_SetFPS(t *testing.T) {
	cam := NewMockCamera(nil, false)
	cam.SetFPS(24)
	cam.SetFPS(0)
	if cam.FPS() != 24 {
		t.Errorf("FPS() = %d, want 24", cam.FPS())
	}
}

func TestDrawHands(t *testing.T) {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	hand := detector.OpenPalmLandmarks()
	DrawHands(&frame, []detector.HandLandmarks{hand})

	wrist := hand.Points[detector.Wrist]
	px := frame.GetVecbAt(int(wrist.Y*480), int(wrist.X*640))
	if px[0] == 0 && px[1] == 0 && px[2] == 0 {
		t.Error("expected wrist landmark to be drawn")
	}

	// Empty frames are ignored
	empty := gocv.NewMat()
	defer empty.Close()
	DrawHands(&empty, []detector.HandLandmarks{hand})
}
