package perception

// Label is the object category assigned by annotators and by the detector.
type Label string

const (
	LabelCar        Label = "car"
	LabelTruck      Label = "truck"
	LabelBus        Label = "bus"
	LabelBicycle    Label = "bicycle"
	LabelMotorbike  Label = "motorbike"
	LabelPedestrian Label = "pedestrian"
	LabelAnimal     Label = "animal"
	LabelUnknown    Label = "unknown"
)

// KnownLabels lists every label the evaluator can be configured with.
var KnownLabels = []Label{
	LabelCar, LabelTruck, LabelBus, LabelBicycle,
	LabelMotorbike, LabelPedestrian, LabelAnimal, LabelUnknown,
}

// Valid reports whether l is one of the known labels.
func (l Label) Valid() bool {
	for _, k := range KnownLabels {
		if l == k {
			return true
		}
	}
	return false
}

// ContainsLabel reports whether l appears in labels.
func ContainsLabel(labels []Label, l Label) bool {
	for _, candidate := range labels {
		if candidate == l {
			return true
		}
	}
	return false
}
