package wire

type ColorDescription struct {
	base
	DescID int     `json:"id"`
	Red    int     `json:"red"`
	Green  int     `json:"green"`
	Blue   int     `json:"blue"`
	HAngle float64 `json:"hangle"`
	HDSat  float64 `json:"hdsat"`
}

func NewColorDescription(id, red, green, blue int, hangle, hdsat float64) ColorDescription {
	return ColorDescription{base: base{"color_description"}, DescID: id, Red: red, Green: green, Blue: blue, HAngle: hangle, HDSat: hdsat}
}

// CodeDescription references up to five configured colors; unused slots are -1.
type CodeDescription struct {
	base
	DescID int `json:"id"`
	C1 int `json:"c1"`
	C2 int `json:"c2"`
	C3 int `json:"c3"`
	C4 int `json:"c4"`
	C5 int `json:"c5"`
}

func NewCodeDescription(id int, colorIDs ...int) CodeDescription {
	d := CodeDescription{base: base{"code_description"}, DescID: id, C1: -1, C2: -1, C3: -1, C4: -1, C5: -1}
	slots := []*int{&d.C1, &d.C2, &d.C3, &d.C4, &d.C5}
	for i, c := range colorIDs {
		if i >= len(slots) {
			break
		}
		*slots[i] = c
	}
	return d
}

type TagDetection struct {
	base
	Enable bool `json:"b_enable"`
}

func NewTagDetection(enable bool) TagDetection {
	return TagDetection{base: base{"tag_detection"}, Enable: enable}
}

type ColorDetection struct {
	base
	Enable bool `json:"b_enable"`
	Merge  bool `json:"b_merge"`
}

func NewColorDetection(enable, merge bool) ColorDetection {
	return ColorDetection{base: base{"color_detection"}, Enable: enable, Merge: merge}
}

type ModelDetection struct {
	base
	Enable bool `json:"b_enable"`
}

func NewModelDetection(enable bool) ModelDetection {
	return ModelDetection{base: base{"model_detection"}, Enable: enable}
}
