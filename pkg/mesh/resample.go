package mesh

import "github.com/Faultbox/meshbake/pkg/math"

// ResampleColors returns new colors with new[i] = colors[mapping[i]].
func ResampleColors(colors []Color, mapping []int) ([]Color, error) {
	return resample(colors, mapping)
}

// ResamplePositions returns new positions with new[i] = positions[mapping[i]].
func ResamplePositions(positions []math.Vec3, mapping []int) ([]math.Vec3, error) {
	return resample(positions, mapping)
}

func resample[T any](src []T, mapping []int) ([]T, error) {
	if err := checkMapping(mapping, len(src)); err != nil {
		return nil, err
	}
	out := make([]T, len(mapping))
	for i, s := range mapping {
		out[i] = src[s]
	}
	return out, nil
}
