package model

type SegmentType string

const (
	SegmentSlope       SegmentType = "slope"
	SegmentSteepSlope  SegmentType = "steep_slope"
	SegmentFlat        SegmentType = "flat"
	SegmentFunnel      SegmentType = "funnel"
	SegmentWideCurve   SegmentType = "wide_curve"
	SegmentZigzag      SegmentType = "zigzag"
	SegmentDrop        SegmentType = "drop"
	SegmentNarrow      SegmentType = "narrow"
	SegmentGentleBend  SegmentType = "gentle_bend"
	SegmentSplit       SegmentType = "split"
	SegmentQuarterPipe SegmentType = "quarter_pipe"
	SegmentMiniRamp    SegmentType = "mini_ramp"
	SegmentHalfPipe    SegmentType = "half_pipe"
	SegmentMaze        SegmentType = "maze"
	SegmentLattice     SegmentType = "lattice"
	SegmentFinish      SegmentType = "finish"
)

type TrackPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TrackSegment is one stretch of corridor. Points is the left wall,
// RightPoints the right wall, Dividers optional interior walls.
type TrackSegment struct {
	Type        SegmentType    `json:"type"`
	Points      []TrackPoint   `json:"points"`
	RightPoints []TrackPoint   `json:"rightPoints"`
	Dividers    [][]TrackPoint `json:"dividers,omitempty"`
}

// Track is immutable once generated and is shared read-only between the
// simulation and whatever draws it.
type Track struct {
	Seed        int32          `json:"seed"`
	Segments    []TrackSegment `json:"segments"`
	StartX      float64        `json:"startX"`
	StartY      float64        `json:"startY"`
	Width       float64        `json:"width"`
	Height      float64        `json:"height"`
	FunnelLeft  float64        `json:"funnelLeft"`
	FunnelRight float64        `json:"funnelRight"`
	BoundsMinX  float64        `json:"boundsMinX"`
	BoundsMaxX  float64        `json:"boundsMaxX"`
	BoundsMinY  float64        `json:"boundsMinY"`
	BoundsMaxY  float64        `json:"boundsMaxY"`
}

// FinishLineY is the Y of the first left point of the finish segment.
func (t *Track) FinishLineY() float64 {
	if len(t.Segments) == 0 {
		return 0
	}
	last := t.Segments[len(t.Segments)-1]
	if len(last.Points) == 0 {
		return 0
	}
	return last.Points[0].Y
}

// EachWall calls f for every consecutive point pair of every left wall,
// right wall and divider, in segment order.
func (t *Track) EachWall(f func(a, b TrackPoint)) {
	for _, s := range t.Segments {
		eachEdge(s.Points, f)
		eachEdge(s.RightPoints, f)
		for _, d := range s.Dividers {
			eachEdge(d, f)
		}
	}
}

func eachEdge(pts []TrackPoint, f func(a, b TrackPoint)) {
	for i := 0; i+1 < len(pts); i++ {
		f(pts[i], pts[i+1])
	}
}

type MarbleConfig struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	IsBot   bool   `json:"isBot"`
	OwnerId string `json:"ownerId,omitempty"`
}

// MarbleState is recomputed every tick. FinishTime is race clock
// milliseconds and is only meaningful when Finished is set.
type MarbleState struct {
	Id           string   `json:"id"`
	X            float64  `json:"x"`
	Y            float64  `json:"y"`
	Angle        float64  `json:"angle"`
	Vx           float64  `json:"vx"`
	Vy           float64  `json:"vy"`
	Finished     bool     `json:"finished"`
	FinishTime   *float64 `json:"finishTime,omitempty"`
	Disqualified bool     `json:"disqualified"`
	Position     int      `json:"position,omitempty"`
}

// DisqualifiedTime is the RaceResult.FinishTime of a disqualified marble.
const DisqualifiedTime = -1

type RaceResult struct {
	MarbleId    string  `json:"marbleId"`
	MarbleName  string  `json:"marbleName"`
	MarbleColor string  `json:"marbleColor"`
	Position    int     `json:"position"`
	FinishTime  float64 `json:"finishTime"`
}

type RaceStatus string

const (
	RaceCountdown RaceStatus = "countdown"
	RaceRacing    RaceStatus = "racing"
	RaceFinished  RaceStatus = "finished"
)

type RaceState struct {
	Status      RaceStatus    `json:"status"`
	Countdown   float64       `json:"countdown"`
	ElapsedTime float64       `json:"elapsedTime"`
	Marbles     []MarbleState `json:"marbles"`
	Results     []RaceResult  `json:"results"`
}
