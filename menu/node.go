package menu

// Node node in an exported menu tree
type Node struct {
	ID        int              `json:"id"`       // unique within a location - it is your responsibility, that they are unique
	ObjectID  int              `json:"objectId"` // content object the entry points to
	Title     string           `json:"title"`
	URL       string           `json:"URL"`
	Classes   []string         `json:"classes"`
	AttrTitle string           `json:"attrTitle"`
	Target    string           `json:"target"`
	XFN       string           `json:"xfn"`
	Groups    []string         `json:"groups"` // which groups see the entry, if empty everybody does
	Hidden    bool             `json:"hidden"`
	Nodes     map[string]*Node `json:"nodes"` // child nodes
	Index     []string         `json:"index"` // defines the order of the child nodes
}

// AddNode adds a named child node
func (n *Node) AddNode(name string, childNode *Node) *Node {
	if n.Nodes == nil {
		n.Nodes = map[string]*Node{}
	}
	n.Nodes[name] = childNode
	n.Index = append(n.Index, name)
	return n
}

// ToItem convert a node to a menu item below the given parent
func (n *Node) ToItem(parentID int) *Item {
	return &Item{
		ID:        n.ID,
		ParentID:  parentID,
		ObjectID:  n.ObjectID,
		Title:     n.Title,
		URL:       n.URL,
		Classes:   append([]string(nil), n.Classes...),
		AttrTitle: n.AttrTitle,
		Target:    n.Target,
		XFN:       n.XFN,
	}
}

// CanBeAccessedByGroups can this node be accessed by at least one the given
// groups
func (n *Node) CanBeAccessedByGroups(groups []string) bool {
	// no groups set on node => anybody can access it
	if len(n.Groups) == 0 {
		return true
	}

	for _, group := range groups {
		for _, myGroup := range n.Groups {
			if group == myGroup {
				return true
			}
		}
	}
	return false
}

// Items flattens the children of a location root in index order. Hidden
// entries and entries the groups may not see are dropped with their subtrees.
func (n *Node) Items(groups []string) []*Item {
	var items []*Item
	n.collect(RootID, groups, &items)
	return items
}

func (n *Node) collect(parentID int, groups []string, items *[]*Item) {
	for _, key := range n.Index {
		childNode, ok := n.Nodes[key]
		if !ok || childNode.Hidden || !childNode.CanBeAccessedByGroups(groups) {
			continue
		}
		*items = append(*items, childNode.ToItem(parentID))
		childNode.collect(childNode.ID, groups, items)
	}
}
