package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/homecoming/internal/detector"
)

func TestFingers(t *testing.T) {
	tests := []struct {
		name string
		hand detector.HandLandmarks
		want FingerState
	}{
		{"fist", detector.FistLandmarks(), FingerState{}},
		{"open hand", detector.OpenHandLandmarks(), FingerState{true, true, true, true, true}},
		{"shaka", detector.ShakaLandmarks(), FingerState{Thumb: true, Pinky: true}},
		{"peace", detector.PeaceLandmarks(), FingerState{Index: true, Middle: true}},
		{"ok sign", detector.OKSignLandmarks(), FingerState{Middle: true, Ring: true, Pinky: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fingers(&tt.hand))
		})
	}
}

func TestFingers_ThumbUsesHorizontalSpread(t *testing.T) {
	hand := detector.FistLandmarks()
	ip := hand.Points[detector.ThumbIP]

	// Straight up from the IP joint is still tucked.
	hand.Points[detector.ThumbTip] = detector.Point3D{X: ip.X, Y: ip.Y - 0.2}
	assert.False(t, Fingers(&hand).Thumb)

	hand.Points[detector.ThumbTip] = detector.Point3D{X: ip.X + 0.041, Y: ip.Y}
	assert.True(t, Fingers(&hand).Thumb)

	hand.Points[detector.ThumbTip] = detector.Point3D{X: ip.X - 0.05, Y: ip.Y}
	assert.True(t, Fingers(&hand).Thumb, "left hand spreads the other way")
}

func TestFingers_TipMustClearBothJoints(t *testing.T) {
	hand := detector.FistLandmarks()
	mcp := hand.Points[detector.IndexMCP]

	// Above the PIP joint but below the base.
	hand.Points[detector.IndexPIP] = detector.Point3D{X: mcp.X, Y: mcp.Y + 0.10}
	hand.Points[detector.IndexTip] = detector.Point3D{X: mcp.X, Y: mcp.Y + 0.05}
	assert.False(t, Fingers(&hand).Index)

	// Level with the PIP joint is not strictly above it.
	hand.Points[detector.IndexPIP] = detector.Point3D{X: mcp.X, Y: mcp.Y - 0.10}
	hand.Points[detector.IndexTip] = detector.Point3D{X: mcp.X, Y: mcp.Y - 0.10}
	assert.False(t, Fingers(&hand).Index)

	hand.Points[detector.IndexTip] = detector.Point3D{X: mcp.X, Y: mcp.Y - 0.20}
	assert.True(t, Fingers(&hand).Index)
}

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name       string
		hand       detector.HandLandmarks
		want       Name
		confidence float64
	}{
		{"shaka", detector.ShakaLandmarks(), Shaka, 0.90},
		{"ok sign", detector.OKSignLandmarks(), OKSign, 0.85},
		{"open hand", detector.OpenHandLandmarks(), Wave, 0.80},
		{"fist", detector.FistLandmarks(), ClosedFist, 0.90},
		{"vulcan", detector.VulcanLandmarks(), VulcanSign, 0.85},
		{"peace", detector.PeaceLandmarks(), PeaceSign, 0.85},
		{"rock on", detector.RockOnLandmarks(), RockOn, 0.85},
	}

	c := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(&tt.hand)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
			assert.InDelta(t, tt.confidence, got.Confidence, 1e-9)
			assert.NotEmpty(t, got.Emoji)
			assert.NotEmpty(t, got.Action)
		})
	}
}

func TestClassifier_NeutralPoseMatchesNothing(t *testing.T) {
	hand := detector.RelaxedLandmarks()
	assert.Nil(t, NewClassifier().Classify(&hand))
	assert.Nil(t, NewClassifier().Classify(nil))
}

func TestClassifier_UnspreadVulcanFallsBackToWave(t *testing.T) {
	hand := detector.PoseLandmarks(detector.Pose{
		Thumb: true, Index: true, Middle: true, Ring: true, Pinky: true,
		Spread: 0.03,
	})

	got := NewClassifier().Classify(&hand)
	require.NotNil(t, got)
	assert.Equal(t, Wave, got.Name)
	assert.InDelta(t, 0.80, got.Confidence, 1e-9)

	// Exactly at the threshold is still not spread.
	hand.Points[detector.RingTip].X = hand.Points[detector.MiddleTip].X - SpreadThreshold
	got = NewClassifier().Classify(&hand)
	require.NotNil(t, got)
	assert.Equal(t, Wave, got.Name)
}

func TestClassifier_Deterministic(t *testing.T) {
	c := NewClassifier()
	for _, hand := range []detector.HandLandmarks{
		detector.ShakaLandmarks(),
		detector.VulcanLandmarks(),
		detector.RelaxedLandmarks(),
	} {
		first := c.Classify(&hand)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, c.Classify(&hand))
		}
	}
}

func TestClassifier_TieGoesToFirstRule(t *testing.T) {
	always := func(Features) bool { return true }
	c := NewClassifierWithRules([]Rule{
		{Name: "low", Confidence: 0.5, Match: always},
		{Name: "first", Confidence: 0.9, Match: always},
		{Name: "second", Confidence: 0.9, Match: always},
	})

	hand := detector.FistLandmarks()
	got := c.Classify(&hand)
	require.NotNil(t, got)
	assert.Equal(t, Name("first"), got.Name)
}

func TestClassifier_RuleWithoutMatchIsSkipped(t *testing.T) {
	c := NewClassifierWithRules([]Rule{
		{Name: "unset", Confidence: 0.99},
		{Name: "fist", Confidence: 0.5, Match: func(f Features) bool { return f.Fingers.AllCurled() }},
	})

	hand := detector.FistLandmarks()
	var got *Candidate
	require.NotPanics(t, func() { got = c.Classify(&hand) })
	require.NotNil(t, got)
	assert.Equal(t, Name("fist"), got.Name)

	// Motion rules carry no predicate and never match a pose.
	assert.Nil(t, NewClassifierWithRules(MotionRules()).Classify(&hand))
}

func TestClassifier_Features(t *testing.T) {
	c := NewClassifier()

	ok := detector.OKSignLandmarks()
	f := c.Features(&ok)
	assert.Less(t, f.PinchDistance, PinchThreshold)

	vulcan := detector.VulcanLandmarks()
	f = c.Features(&vulcan)
	assert.Greater(t, f.MiddleRingGap, SpreadThreshold)
	assert.True(t, f.Fingers.AllExtended())

	open := detector.OpenHandLandmarks()
	f = c.Features(&open)
	assert.Greater(t, f.ThumbIndexAngle, 0.0)
	assert.Less(t, f.ThumbIndexAngle, 180.0)

	// Zero landmarks stay finite.
	var empty detector.HandLandmarks
	f = c.Features(&empty)
	assert.Zero(t, f.ThumbIndexAngle)
	assert.True(t, f.Fingers.AllCurled())
}

func TestRulesAndLookup(t *testing.T) {
	table := Rules()
	require.Len(t, table, 7)

	order := []Name{Shaka, OKSign, Wave, ClosedFist, VulcanSign, PeaceSign, RockOn}
	for i, name := range order {
		assert.Equal(t, name, table[i].Name)
	}

	// Mutating the copy leaves the built-in table alone.
	table[0].Confidence = 0
	r, ok := Lookup(Shaka)
	require.True(t, ok)
	assert.InDelta(t, 0.90, r.Confidence, 1e-9)

	_, ok = Lookup("thumbs_up")
	assert.False(t, ok)

	// Motion gestures are looked up too, but are not pose rules.
	r, ok = Lookup(SwipeRight)
	require.True(t, ok)
	assert.Equal(t, "next_page", r.Action)
	assert.Nil(t, r.Match)
	assert.Len(t, AllRules(), len(table)+len(MotionRules()))
}
