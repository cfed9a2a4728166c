package classify

import (
	"strconv"

	"github.com/sjwhitworth/golearn/base"
)

// attrSet holds one shared set of golearn attributes so that train,
// test and permuted-test instances all resolve to the same columns and
// the same categorical class mapping.
type attrSet struct {
	features []base.Attribute
	class    *base.CategoricalAttribute
}

func newAttrSet(genres []string) *attrSet {
	feats := make([]base.Attribute, len(genres))
	for i, g := range genres {
		feats[i] = base.NewFloatAttribute(g)
	}
	cls := base.NewCategoricalAttribute()
	cls.SetName("cluster")
	return &attrSet{features: feats, class: cls}
}

// instances packs rows/labels into a DenseInstances over the shared
// attributes, cluster label as the (categorical) class.
func (a *attrSet) instances(rows [][]float64, labels []int) (*base.DenseInstances, error) {
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(a.features))
	for i, attr := range a.features {
		specs[i] = inst.AddAttribute(attr)
	}
	clsSpec := inst.AddAttribute(a.class)
	if err := inst.AddClassAttribute(a.class); err != nil {
		return nil, err
	}
	if err := inst.Extend(len(rows)); err != nil {
		return nil, err
	}
	for i, row := range rows {
		for j, v := range row {
			inst.Set(specs[j], i, base.PackFloatToBytes(v))
		}
		inst.Set(clsSpec, i, a.class.GetSysValFromString(strconv.Itoa(labels[i])))
	}
	return inst, nil
}
