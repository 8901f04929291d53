// Package videoml provides shared infrastructure for supervised learners
// that consume video frames: checkpoint save/load of model parameters,
// per-learner rotating file logging, and modality-aware image augmentation
// pipelines.
//
// Concrete learners embed model.BaseLearner and gain:
//
//   - Save/Load of parameter state dicts, tolerant of the key prefix added
//     by the data-parallel wrapper
//   - an explicit rotating-file logger handle with a create/close lifecycle
//   - a pipeline builder producing training or evaluation transforms for
//     rgb and optical-flow inputs
//
// A minimal learner:
//
//	type Learner struct {
//	    model.BaseLearner
//	}
//
//	func NewLearner() (*Learner, error) {
//	    l := &Learner{BaseLearner: model.NewBaseLearner()}
//	    l.ImageSize = image.Pt(224, 224)
//	    if err := l.CreateLogger("log/learner.log"); err != nil {
//	        return nil, err
//	    }
//	    return l, nil
//	}
package videoml
