package artifact

import (
	"github.com/liamcoop/churnform/churn"
)

// TreeNode is either a split or, when Leaf is set, a terminal label
type TreeNode struct {
	Feature   int     `yaml:"feature,omitempty"`
	Threshold float64 `yaml:"threshold,omitempty"`
	Left      int     `yaml:"left,omitempty"`
	Right     int     `yaml:"right,omitempty"`
	Leaf      *int    `yaml:"leaf,omitempty"`
}

// Tree is a flattened decision tree rooted at node 0
type Tree struct {
	Nodes []TreeNode `yaml:"nodes"`
}

// TreeEnsembleSpec is the decoded form of a tree ensemble artifact
type TreeEnsembleSpec struct {
	Kind      string `yaml:"kind"`
	NFeatures int    `yaml:"n_features"`
	Trees     []Tree `yaml:"trees"`
}

// TreeEnsemble is a majority-vote ensemble of decision trees
type TreeEnsemble struct {
	nFeatures int
	trees     []Tree
}

// NewTreeEnsemble validates spec and builds an ensemble from it
func NewTreeEnsemble(spec TreeEnsembleSpec) (*TreeEnsemble, error) {
	if err := ValidateTreeEnsembleSpec(spec); err != nil {
		return nil, err
	}

	trees := make([]Tree, len(spec.Trees))
	for i, t := range spec.Trees {
		nodes := make([]TreeNode, len(t.Nodes))
		copy(nodes, t.Nodes)
		trees[i] = Tree{Nodes: nodes}
	}

	return &TreeEnsemble{nFeatures: spec.NFeatures, trees: trees}, nil
}

func (e *TreeEnsemble) Kind() string {
	return KindTreeEnsemble
}

func (e *TreeEnsemble) InputWidth() int {
	return e.nFeatures
}

// Trees returns the number of trees in the ensemble
func (e *TreeEnsemble) Trees() int {
	return len(e.trees)
}

// Predict walks every tree and returns the majority label; a tie is LabelStay
func (e *TreeEnsemble) Predict(features []float64) (churn.Label, error) {
	if err := checkWidth(e.nFeatures, features); err != nil {
		return churn.LabelStay, err
	}

	churnVotes := 0
	for _, t := range e.trees {
		if walk(t, features) == churn.LabelChurn {
			churnVotes++
		}
	}

	if 2*churnVotes > len(e.trees) {
		return churn.LabelChurn, nil
	}
	return churn.LabelStay, nil
}

// walk follows splits from the root; validation guarantees child indices only move forward
func walk(t Tree, features []float64) churn.Label {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf != nil {
			return churn.Label(*n.Leaf)
		}
		if features[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
