package directory

import "strings"

// NodeType tags a tree node as one of the four hierarchy levels.
type NodeType string

const (
	NodeCompany  NodeType = "company"
	NodeCampus   NodeType = "campus"
	NodeDept     NodeType = "dept"
	NodeEmployee NodeType = "employee"
)

// UnknownGroup is the grouping label substituted when an employee has no
// campus or department value.
const UnknownGroup = "Unknown"

// TreeNode is one node of the contacts hierarchy. Keys are derived from the
// node type and its identifying attributes, so two employees sharing a
// campus and department always land under the same campus and dept nodes.
type TreeNode struct {
	Key      string      `json:"key"`
	Label    string      `json:"label"`
	NodeType NodeType    `json:"node_type"`
	Children []*TreeNode `json:"children"`
	Data     *Employee   `json:"data,omitempty"`
}

// BuildTree groups a flat employee list into the company → campus → dept →
// employee hierarchy. The input order is preserved: campus and dept nodes
// appear in first-seen order, employees in input order, so the same input
// always produces the same tree. Duplicate employee ids are kept as separate
// leaves; the roster is assumed to be deduplicated upstream.
func BuildTree(employees []Employee, companyID, companyName string) []*TreeNode {
	if companyID == "" {
		companyID = "company"
	}
	if companyName == "" {
		companyName = "Company"
	}

	root := &TreeNode{
		Key:      "company:" + companyID,
		Label:    companyName,
		NodeType: NodeCompany,
		Children: []*TreeNode{},
	}

	campusNodes := make(map[string]*TreeNode)
	deptNodes := make(map[[2]string]*TreeNode)

	for i := range employees {
		emp := &employees[i]

		campusValue := strings.TrimSpace(emp.Campus)
		if campusValue == "" {
			campusValue = UnknownGroup
		}
		campusKey := "campus:" + campusValue
		campusNode, ok := campusNodes[campusKey]
		if !ok {
			campusNode = &TreeNode{
				Key:      campusKey,
				Label:    campusValue,
				NodeType: NodeCampus,
				Children: []*TreeNode{},
			}
			campusNodes[campusKey] = campusNode
			root.Children = append(root.Children, campusNode)
		}

		deptValue := emp.DeptID
		if deptValue == "" {
			deptValue = emp.DeptName
		}
		if deptValue == "" {
			deptValue = UnknownGroup
		}
		deptMapKey := [2]string{campusKey, deptValue}
		deptNode, ok := deptNodes[deptMapKey]
		if !ok {
			deptLabel := emp.DeptName
			if deptLabel == "" {
				deptLabel = deptValue
			}
			deptNode = &TreeNode{
				Key:      "dept:" + campusValue + ":" + deptValue,
				Label:    deptLabel,
				NodeType: NodeDept,
				Children: []*TreeNode{},
			}
			deptNodes[deptMapKey] = deptNode
			campusNode.Children = append(campusNode.Children, deptNode)
		}

		label := emp.Name
		if label == "" {
			label = emp.Email
		}
		if label == "" {
			label = emp.EmployeeID
		}
		deptNode.Children = append(deptNode.Children, &TreeNode{
			Key:      "emp:" + emp.EmployeeID,
			Label:    label,
			NodeType: NodeEmployee,
			Children: []*TreeNode{},
			Data:     emp,
		})
	}

	return []*TreeNode{root}
}

// FindByKey searches the forest depth-first in pre-order and returns the
// first node with the given key, or nil when the key does not exist.
func FindByKey(nodes []*TreeNode, key string) *TreeNode {
	for _, node := range nodes {
		if node.Key == key {
			return node
		}
		if found := FindByKey(node.Children, key); found != nil {
			return found
		}
	}
	return nil
}
