package directory_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylekyl-khan/contacts-server/directory"
)

func employee(id, name, campus, deptID, deptName string) directory.Employee {
	return directory.Employee{
		CompanyID:  "KH",
		EmployeeID: id,
		Name:       name,
		Campus:     campus,
		DeptID:     deptID,
		DeptName:   deptName,
	}
}

func TestBuildTreeGrouping(t *testing.T) {
	employees := []directory.Employee{
		employee("1", "Alice", "A", "X", "Sales"),
		employee("2", "Bob", "A", "Y", "Engineering"),
		employee("3", "Carol", "B", "X", "Sales"),
	}

	tree := directory.BuildTree(employees, "KH", "KangHsu")
	require.Len(t, tree, 1)

	root := tree[0]
	assert.Equal(t, "company:KH", root.Key)
	assert.Equal(t, "KangHsu", root.Label)
	assert.Equal(t, directory.NodeCompany, root.NodeType)
	require.Len(t, root.Children, 2)

	campusA, campusB := root.Children[0], root.Children[1]
	assert.Equal(t, "campus:A", campusA.Key)
	assert.Equal(t, "campus:B", campusB.Key)

	// A has two departments, B has one, same dept id under two campuses
	// stays two distinct nodes.
	require.Len(t, campusA.Children, 2)
	require.Len(t, campusB.Children, 1)
	assert.Equal(t, "dept:A:X", campusA.Children[0].Key)
	assert.Equal(t, "dept:A:Y", campusA.Children[1].Key)
	assert.Equal(t, "dept:B:X", campusB.Children[0].Key)

	assert.Equal(t, "Sales", campusA.Children[0].Label)

	require.Len(t, campusA.Children[0].Children, 1)
	leaf := campusA.Children[0].Children[0]
	assert.Equal(t, "emp:1", leaf.Key)
	assert.Equal(t, "Alice", leaf.Label)
	require.NotNil(t, leaf.Data)
	assert.Equal(t, "1", leaf.Data.EmployeeID)
}

func TestBuildTreeUnknownGrouping(t *testing.T) {
	employees := []directory.Employee{
		employee("1", "Alice", "", "", ""),
		employee("2", "Bob", "   ", "", ""),
	}

	tree := directory.BuildTree(employees, "KH", "KangHsu")
	root := tree[0]

	// Both employees share the single Unknown/Unknown pair.
	require.Len(t, root.Children, 1)
	campus := root.Children[0]
	assert.Equal(t, "campus:Unknown", campus.Key)
	require.Len(t, campus.Children, 1)
	dept := campus.Children[0]
	assert.Equal(t, "dept:Unknown:Unknown", dept.Key)
	assert.Equal(t, "Unknown", dept.Label)
	assert.Len(t, dept.Children, 2)
}

func TestBuildTreeDeptFallbacks(t *testing.T) {
	employees := []directory.Employee{
		employee("1", "Alice", "A", "", "Engineering"),
	}

	tree := directory.BuildTree(employees, "KH", "KangHsu")
	dept := tree[0].Children[0].Children[0]

	// No dept id: the name is both the grouping value and the label.
	assert.Equal(t, "dept:A:Engineering", dept.Key)
	assert.Equal(t, "Engineering", dept.Label)
}

func TestBuildTreeEmployeeLabelFallback(t *testing.T) {
	employees := []directory.Employee{
		{CompanyID: "KH", EmployeeID: "9", Email: "x@example.com"},
		{CompanyID: "KH", EmployeeID: "10"},
	}

	tree := directory.BuildTree(employees, "KH", "KangHsu")
	leaves := tree[0].Children[0].Children[0].Children
	require.Len(t, leaves, 2)
	assert.Equal(t, "x@example.com", leaves[0].Label)
	assert.Equal(t, "10", leaves[1].Label)
}

func TestBuildTreeDuplicateIDsKept(t *testing.T) {
	employees := []directory.Employee{
		employee("1", "Alice", "A", "X", ""),
		employee("1", "Alice Again", "A", "X", ""),
	}

	tree := directory.BuildTree(employees, "KH", "KangHsu")
	dept := tree[0].Children[0].Children[0]
	require.Len(t, dept.Children, 2)
	assert.Equal(t, "emp:1", dept.Children[0].Key)
	assert.Equal(t, "emp:1", dept.Children[1].Key)
}

func TestBuildTreeDeterministic(t *testing.T) {
	employees := []directory.Employee{
		employee("3", "Carol", "B", "X", ""),
		employee("1", "Alice", "A", "X", ""),
		employee("1", "Alice", "A", "X", ""),
		employee("2", "Bob", "A", "Y", ""),
	}

	first, err := json.Marshal(directory.BuildTree(employees, "KH", "KangHsu"))
	require.NoError(t, err)
	second, err := json.Marshal(directory.BuildTree(employees, "KH", "KangHsu"))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	// First-seen order is preserved: campus B before campus A.
	tree := directory.BuildTree(employees, "KH", "KangHsu")
	assert.Equal(t, "campus:B", tree[0].Children[0].Key)
	assert.Equal(t, "campus:A", tree[0].Children[1].Key)
}

func TestBuildTreeEmptyInput(t *testing.T) {
	tree := directory.BuildTree(nil, "KH", "KangHsu")
	require.Len(t, tree, 1)
	assert.Empty(t, tree[0].Children)

	// The root still serializes with an empty children array, not null.
	data, err := json.Marshal(tree[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"children":[]`)
}

func TestFindByKey(t *testing.T) {
	employees := []directory.Employee{
		employee("1", "Alice", "A", "X", ""),
		employee("2", "Bob", "B", "Y", ""),
	}
	tree := directory.BuildTree(employees, "KH", "KangHsu")

	tests := []struct {
		name  string
		key   string
		found bool
	}{
		{"root", "company:KH", true},
		{"campus", "campus:B", true},
		{"dept", "dept:A:X", true},
		{"employee", "emp:2", true},
		{"missing", "dept:C:Z", false},
		{"empty key", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			node := directory.FindByKey(tree, tc.key)
			if tc.found {
				require.NotNil(t, node)
				assert.Equal(t, tc.key, node.Key)
			} else {
				assert.Nil(t, node)
			}
		})
	}
}

func TestFindByKeyEmptyForest(t *testing.T) {
	assert.Nil(t, directory.FindByKey(nil, "company:KH"))
	assert.Nil(t, directory.FindByKey([]*directory.TreeNode{}, "company:KH"))
}
