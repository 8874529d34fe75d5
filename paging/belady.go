package paging

import "fmt"

// A FaultPoint is the number of faults observed with a given frame count.
type FaultPoint struct {
	Frames int `json:"frames"`
	Faults int `json:"faults"`
}

// BeladyScan simulates the sequence once for every frame count in
// [minFrames, maxFrames] and reports the fault counts.
func BeladyScan(
	refs []Page,
	minFrames, maxFrames int,
	strategy Strategy,
) ([]FaultPoint, error) {
	return NewSimulator(strategy).Scan(refs, minFrames, maxFrames)
}

// Scan is BeladyScan on the simulator, so that its hooks see every run of
// the scan.
func (s *Simulator) Scan(
	refs []Page,
	minFrames, maxFrames int,
) ([]FaultPoint, error) {
	if minFrames < 1 || maxFrames < minFrames {
		return nil, configError("belady scan",
			fmt.Errorf("%w: [%d, %d]", ErrInvalidFrameRange, minFrames, maxFrames))
	}

	points := make([]FaultPoint, 0, maxFrames-minFrames+1)

	for f := minFrames; f <= maxFrames; f++ {
		trace, err := s.Run(refs, f)
		if err != nil {
			return nil, err
		}

		points = append(points, FaultPoint{Frames: f, Faults: trace.Faults})
	}

	return points, nil
}

// Anomalies returns the points that have more faults than the point before
// them, that is, where adding a frame made things worse.
func Anomalies(points []FaultPoint) []FaultPoint {
	var anomalies []FaultPoint

	for i := 1; i < len(points); i++ {
		if points[i].Faults > points[i-1].Faults {
			anomalies = append(anomalies, points[i])
		}
	}

	return anomalies
}
