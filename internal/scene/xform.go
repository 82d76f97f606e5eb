package scene

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	xformOpOrderAttribute = "xformOpOrder"
	xformOpPrefix         = "xformOp:"
	invertPrefix          = "!invert!"
	resetXformStack       = "!resetXformStack!"
)

// ErrNotXformable is returned when a transform is requested from a prim that has none
var ErrNotXformable = errors.New("prim is not xformable")

// prim types that carry a transform
var xformableTypes = map[string]bool{
	"Xform": true, "Mesh": true, "Points": true, "BasisCurves": true, "NurbsCurves": true,
	"NurbsPatch": true, "HermiteCurves": true, "TetMesh": true, "Cube": true, "Sphere": true,
	"Cylinder": true, "Cone": true, "Capsule": true, "Plane": true, "Camera": true,
	"PointInstancer": true, "SkelRoot": true, "Skeleton": true, "Volume": true,
	"DistantLight": true, "DomeLight": true, "SphereLight": true, "RectLight": true,
	"DiskLight": true, "CylinderLight": true, "PortalLight": true, "GeometryLight": true,
}

type XformOpType string

const (
	OpTranslate XformOpType = "translate"
	OpScale     XformOpType = "scale"
	OpRotateX   XformOpType = "rotateX"
	OpRotateY   XformOpType = "rotateY"
	OpRotateZ   XformOpType = "rotateZ"
	OpOrient    XformOpType = "orient"
	OpTransform XformOpType = "transform"
)

// XformOp is one entry of a prim's xformOpOrder
type XformOp struct {
	Name    string
	Type    XformOpType
	Inverse bool
	Value   *Value
}

// Matrix4 is a 4x4 affine transform stored row-major and applied to row vectors,
// so the translation is held in the last row.
type Matrix4 [4][4]float64

func IdentityMatrix() Matrix4 {
	return Matrix4{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
}

func (m Matrix4) Translation() (x, y, z float64) {
	return m[3][0], m[3][1], m[3][2]
}

func (m Matrix4) String() string {
	var sb strings.Builder
	sb.WriteString("( ")
	for r := 0; r < 4; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for c := 0; c < 4; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.FormatFloat(m[r][c], 'g', -1, 64))
		}
		sb.WriteString(")")
	}
	sb.WriteString(" )")
	return sb.String()
}

// mgl64 works with column vectors, the transpose of the row vector convention
func fromMgl(m mgl64.Mat4) Matrix4 {
	var out Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r][c] = m.At(c, r)
		}
	}
	return out
}

// IsXformable reports whether the prim has a transform of its own
func (n *Node) IsXformable() bool {
	if xformableTypes[n.typeName] {
		return true
	}
	_, ok := n.AuthoredValue(xformOpOrderAttribute)
	return ok
}

// XformOps returns the prim's transform operations in xformOpOrder order
func (n *Node) XformOps() ([]XformOp, error) {
	orderValue, ok := n.AuthoredValue(xformOpOrderAttribute)
	if !ok {
		return nil, nil
	}
	order, ok := orderValue.Strings()
	if !ok {
		return nil, fmt.Errorf("%s: xformOpOrder is not a token array", n.path)
	}

	ops := make([]XformOp, 0, len(order))
	for _, token := range order {
		if token == resetXformStack {
			continue
		}
		name := strings.TrimPrefix(token, invertPrefix)
		op := XformOp{Name: token, Inverse: name != token}

		if !strings.HasPrefix(name, xformOpPrefix) {
			return nil, fmt.Errorf("%s: %q is not an xformOp", n.path, token)
		}
		opType := strings.SplitN(strings.TrimPrefix(name, xformOpPrefix), ":", 2)[0]
		op.Type = XformOpType(opType)

		value, ok := n.AuthoredValue(name)
		if !ok {
			return nil, fmt.Errorf("%s: xformOpOrder names %s which has no value", n.path, name)
		}
		op.Value = value
		ops = append(ops, op)
	}
	return ops, nil
}

func (n *Node) resetsXformStack() bool {
	orderValue, ok := n.AuthoredValue(xformOpOrderAttribute)
	if !ok {
		return false
	}
	order, _ := orderValue.Strings()
	for _, token := range order {
		if token == resetXformStack {
			return true
		}
	}
	return false
}

// LocalTransform composes the prim's xform ops. Ops are applied to points in
// reverse order, so the first op of xformOpOrder is the outermost.
func (n *Node) LocalTransform() (Matrix4, error) {
	m, err := n.localMgl()
	if err != nil {
		return Matrix4{}, err
	}
	return fromMgl(m), nil
}

func (n *Node) localMgl() (mgl64.Mat4, error) {
	if !n.IsXformable() {
		return mgl64.Ident4(), ErrNotXformable
	}
	ops, err := n.XformOps()
	if err != nil {
		return mgl64.Ident4(), err
	}
	m := mgl64.Ident4()
	for _, op := range ops {
		opm, err := op.matrix()
		if err != nil {
			return mgl64.Ident4(), fmt.Errorf("%s: %s: %w", n.path, op.Name, err)
		}
		m = m.Mul4(opm)
	}
	return m, nil
}

// ComputeWorldTransform composes the local transforms of the prim and its xformable
// ancestors up to the root, or up to the nearest prim that resets the xform stack.
func (n *Node) ComputeWorldTransform() (Matrix4, error) {
	if !n.IsXformable() {
		return Matrix4{}, ErrNotXformable
	}
	world := mgl64.Ident4()
	for cur := n; cur != nil; cur = cur.parent {
		if !cur.IsXformable() {
			continue
		}
		local, err := cur.localMgl()
		if err != nil {
			return Matrix4{}, err
		}
		world = local.Mul4(world)
		if cur.resetsXformStack() {
			break
		}
	}
	return fromMgl(world), nil
}

// WorldTransform is ComputeWorldTransform with failures reported as unavailable
func (n *Node) WorldTransform() (Matrix4, bool) {
	m, err := n.ComputeWorldTransform()
	return m, err == nil
}

func (op XformOp) matrix() (mgl64.Mat4, error) {
	m, err := op.forward()
	if err != nil {
		return m, err
	}
	if op.Inverse {
		if m.Det() == 0 {
			return m, errors.New("cannot invert a singular op")
		}
		m = m.Inv()
	}
	return m, nil
}

func (op XformOp) forward() (mgl64.Mat4, error) {
	switch op.Type {
	case OpTranslate:
		v, err := op.vec3()
		return mgl64.Translate3D(v[0], v[1], v[2]), err
	case OpScale:
		v, err := op.vec3()
		return mgl64.Scale3D(v[0], v[1], v[2]), err
	case OpRotateX, OpRotateY, OpRotateZ:
		angle, ok := op.Value.Number()
		if !ok {
			return mgl64.Ident4(), errors.New("rotation angle is not a number")
		}
		return axisRotation(op.Type[len(op.Type)-1], angle), nil
	case OpOrient:
		q, ok := op.Value.Numbers()
		if !ok || len(q) != 4 {
			return mgl64.Ident4(), errors.New("orient is not a quaternion")
		}
		quat := mgl64.Quat{W: q[0], V: mgl64.Vec3{q[1], q[2], q[3]}}
		return quat.Normalize().Mat4(), nil
	case OpTransform:
		rows, ok := op.Value.Rows()
		if !ok || len(rows) != 4 {
			return mgl64.Ident4(), errors.New("transform is not a 4x4 matrix")
		}
		var vecs [4]mgl64.Vec4
		for i, row := range rows {
			if len(row) != 4 {
				return mgl64.Ident4(), errors.New("transform is not a 4x4 matrix")
			}
			vecs[i] = mgl64.Vec4{row[0], row[1], row[2], row[3]}
		}
		// rows of a row-vector matrix are the columns of its column-vector transpose
		return mgl64.Mat4FromCols(vecs[0], vecs[1], vecs[2], vecs[3]), nil
	}

	// three axis rotations: rotateXYZ applies X first, then Y, then Z
	if axes := strings.TrimPrefix(string(op.Type), "rotate"); len(axes) == 3 && axes != string(op.Type) {
		v, err := op.vec3()
		if err != nil {
			return mgl64.Ident4(), err
		}
		m := mgl64.Ident4()
		for i := 0; i < 3; i++ {
			if !strings.ContainsRune("XYZ", rune(axes[i])) {
				return mgl64.Ident4(), fmt.Errorf("unsupported op type %q", op.Type)
			}
			m = axisRotation(axes[i], v[i]).Mul4(m)
		}
		return m, nil
	}
	return mgl64.Ident4(), fmt.Errorf("unsupported op type %q", op.Type)
}

func (op XformOp) vec3() ([3]float64, error) {
	v, ok := op.Value.Numbers()
	if !ok || len(v) != 3 {
		return [3]float64{}, fmt.Errorf("%s value is not a 3 component vector", op.Type)
	}
	return [3]float64{v[0], v[1], v[2]}, nil
}

func axisRotation(axis byte, degrees float64) mgl64.Mat4 {
	rad := mgl64.DegToRad(degrees)
	switch axis {
	case 'X':
		return mgl64.HomogRotate3DX(rad)
	case 'Y':
		return mgl64.HomogRotate3DY(rad)
	}
	return mgl64.HomogRotate3DZ(rad)
}
