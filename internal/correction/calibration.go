package correction

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/smartscope-embedded/smartscope/internal/smartscope"
)

// LoadIntrinsics parses a camera{0,1}_intrinsics.dat file: a header
// "intrinsic:" followed by a row-major 3x3 matrix, then "distortion:"
// followed by five whitespace-separated coefficients.
func LoadIntrinsics(path string) (smartscope.CameraIntrinsics, error) {
	tokens, err := tokenizeFile(path)
	if err != nil {
		return smartscope.CameraIntrinsics{}, smartscope.NewError("correction.LoadIntrinsics", smartscope.ErrIO, err)
	}

	m, rest, err := readSection(tokens, "intrinsic:", 9)
	if err != nil {
		return smartscope.CameraIntrinsics{}, smartscope.NewError("correction.LoadIntrinsics", smartscope.ErrParameterParse, err)
	}

	d, _, err := readSection(rest, "distortion:", 5)
	if err != nil {
		return smartscope.CameraIntrinsics{}, smartscope.NewError("correction.LoadIntrinsics", smartscope.ErrParameterParse, err)
	}

	intr := smartscope.CameraIntrinsics{
		FX: m[0], FY: m[4],
		CX: m[2], CY: m[5],
		Dist: [5]float64{d[0], d[1], d[2], d[3], d[4]},
	}

	if !intr.Valid() {
		return smartscope.CameraIntrinsics{}, smartscope.NewError("correction.LoadIntrinsics", smartscope.ErrParameterParse,
			fmt.Errorf("focal length or principal point not positive"))
	}

	return intr, nil
}

// LoadExtrinsics parses camera1_rot_trans.dat: header "R:" then a 3x3
// matrix, header "T:" then three scalar rows.
func LoadExtrinsics(path string) (smartscope.StereoExtrinsics, error) {
	tokens, err := tokenizeFile(path)
	if err != nil {
		return smartscope.StereoExtrinsics{}, smartscope.NewError("correction.LoadExtrinsics", smartscope.ErrIO, err)
	}

	r, rest, err := readSection(tokens, "R:", 9)
	if err != nil {
		return smartscope.StereoExtrinsics{}, smartscope.NewError("correction.LoadExtrinsics", smartscope.ErrParameterParse, err)
	}

	t, _, err := readSection(rest, "T:", 3)
	if err != nil {
		return smartscope.StereoExtrinsics{}, smartscope.NewError("correction.LoadExtrinsics", smartscope.ErrParameterParse, err)
	}

	var ext smartscope.StereoExtrinsics
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ext.R[i][j] = r[i*3+j]
		}
		ext.T[i] = t[i]
	}

	return ext, nil
}

func tokenizeFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var tokens []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		tok := strings.TrimSuffix(scanner.Text(), ",")
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens, scanner.Err()
}

// sectionHeaders lists every header keyword that can terminate a section,
// used to find where one section's values end and the next begins.
var sectionHeaders = map[string]bool{
	"intrinsic:":  true,
	"distortion:": true,
	"r:":          true,
	"t:":          true,
}

// sectionLength returns how many leading values belong to the current
// section: everything up to the next header keyword, or to the end of
// tokens if no further header follows.
func sectionLength(values []string) int {
	for i, v := range values {
		if sectionHeaders[strings.ToLower(v)] {
			return i
		}
	}
	return len(values)
}

// readSection finds header among tokens, then parses exactly count
// whitespace-separated floats, returning the remaining tokens after them
// for the next section to continue parsing from. A section with more or
// fewer values than count fails instead of silently truncating or reading
// past its boundary.
func readSection(tokens []string, header string, count int) ([]float64, []string, error) {
	idx := -1
	for i, tok := range tokens {
		if strings.EqualFold(tok, header) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, nil, fmt.Errorf("missing header %q", header)
	}

	values := tokens[idx+1:]
	if n := sectionLength(values); n != count {
		return nil, nil, fmt.Errorf("expected %d values after %q, got %d", count, header, n)
	}

	out := make([]float64, count)
	for i := 0; i < count; i++ {
		v, err := strconv.ParseFloat(values[i], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing %q value %d: %w", header, i, err)
		}
		out[i] = v
	}

	return out, values[count:], nil
}
