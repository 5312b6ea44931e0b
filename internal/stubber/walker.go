package stubber

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/flarebyte/seshat-stubs/internal/firmware"
)

// indentUnit is the fixed indentation step per recursion level.
const indentUnit = "    "

// member is the transient record for one attribute during a single walk
// call. The live value reference can pin large objects, so members are
// released before the walk returns.
type member struct {
	name string
	rep  string
	tag  string
	val  firmware.Value
}

// Walker serializes one live object into stub fragments. It keeps no state
// across calls; its only external touchpoints are the liveness callback and
// the output stream.
type Walker struct {
	// Live is invoked once per attribute, before classification.
	Live Liveness
	// Problematic names objects that crash introspection when touched.
	Problematic map[string]bool
	Log         *zap.Logger
}

// WriteObjectStub enumerates the members of obj and emits one stub fragment
// per member in ascending lexical order, recursing into composite members
// only at the top indentation level. A failing attribute read never aborts
// the rest of the object; read errors are logged after the object completes.
func (w *Walker) WriteObjectStub(out io.Writer, obj firmware.Object, qualifiedName, indent string) error {
	if w.Problematic[qualifiedName] {
		w.Log.Warn("skipping problematic object", zap.String("object", qualifiedName))
		return nil
	}

	members, readErrs := collectMembers(obj)
	sort.Slice(members, func(i, j int) bool { return members[i].name < members[j].name })

	var err error
	for _, m := range members {
		if strings.HasPrefix(m.name, "__") {
			continue
		}
		w.Live()
		w.Log.Debug("member", zap.String("name", m.name), zap.String("type", m.tag))

		switch Classify(m.val) {
		case Callable:
			_, err = fmt.Fprintf(out, "%sdef %s():\n%s    pass\n\n", indent, m.name, indent)
		case PrimitiveLiteral:
			_, err = fmt.Fprintf(out, "%s%s = %s\n", indent, m.name, m.rep)
		case CompositeType:
			child, ok := m.val.Object()
			if indent == "" && ok {
				_, err = fmt.Fprintf(out, "\n%sclass %s:\n%s    ''\n", indent, m.name, indent)
				if err == nil {
					err = w.WriteObjectStub(out, child, qualifiedName+"."+m.name, indent+indentUnit)
				}
			} else {
				// Depth cap of one nesting level: degrade to the opaque rule.
				_, err = fmt.Fprintf(out, "%s%s = None\n", indent, m.name)
			}
		default:
			_, err = fmt.Fprintf(out, "%s%s = None\n", indent, m.name)
		}
		if err != nil {
			return err
		}
	}

	for _, msg := range readErrs {
		w.Log.Error("attribute read failed", zap.String("object", qualifiedName), zap.String("detail", msg))
	}
	// Release live refs before unwinding so eviction can reclaim what they pin.
	for i := range members {
		members[i].val = nil
	}
	return nil
}

func collectMembers(obj firmware.Object) ([]member, []string) {
	var ms []member
	var errs []string
	for _, name := range obj.AttrNames() {
		val, err := obj.Attr(name)
		if err != nil {
			errs = append(errs, fmt.Sprintf("couldn't read attribute '%s': %v", name, err))
			continue
		}
		ms = append(ms, member{name: name, rep: val.Repr(), tag: val.TypeTag(), val: val})
	}
	return ms, errs
}
