package timex

import "strings"

// RuneNode is a node of a rune trie. The normalizer keeps two of them: the
// vocabulary, and the table of surface rewrites applied before splitting.
type RuneNode struct {
	rune        rune               // The rune this node represents.
	runes       []rune             // The prior runes that led to this node.
	terminal    bool               // If this node ends a word.
	replacement *string            // The rewrite for the word, if any.
	childs      map[rune]*RuneNode // The child nodes.
	childsArr   *[]*RuneNode       // The child nodes in an array, for speed
}

func NewRuneTree() *RuneNode {
	return &RuneNode{
		runes:  []rune{},
		childs: make(map[rune]*RuneNode, 0),
	}
}

func (root *RuneNode) evaluate(node *RuneNode, r rune) (*RuneNode, bool) {
	// If the node has an array of children, use that. The array exists if the
	// node has less than 10 children, and is used to speed up the evaluation
	// of the node.
	if node.childsArr != nil {
		for _, child := range *node.childsArr {
			if child.rune == r {
				return child, child.terminal
			}
		}
	} else {
		child, ok := node.childs[r]
		if ok {
			return child, child.terminal
		}
	}
	return nil, false
}

// Insert adds a word to the tree and returns its terminal node.
func (root *RuneNode) Insert(word string) *RuneNode {
	keyRunes := []rune(word)
	keyLen := len(keyRunes)
	node := root
	for i := 0; i < keyLen; i++ {
		r := keyRunes[i]
		childNode, ok := node.childs[r]
		if !ok {
			children := make([]*RuneNode, 0)
			childNode = &RuneNode{
				rune:      r,
				runes:     keyRunes[:i+1],
				childs:    make(map[rune]*RuneNode, 0),
				childsArr: &children,
			}
			node.childs[r] = childNode
			if len(node.childs) > 10 {
				// Past 10 children the map is faster than a scan.
				node.childsArr = nil
			} else if node.childsArr != nil {
				*node.childsArr = append(*node.childsArr, childNode)
			}
		}
		if i == keyLen-1 {
			childNode.terminal = true
		}
		node = childNode
	}
	return node
}

// InsertReplacements adds rewrite rules, keyed by the text they match.
func (root *RuneNode) InsertReplacements(replacements map[string]string) {
	for k, v := range replacements {
		replacement := v
		root.Insert(k).replacement = &replacement
	}
}

// Contains reports whether word was inserted.
func (root *RuneNode) Contains(word string) bool {
	node := root
	terminal := false
	for _, r := range word {
		if node, terminal = root.evaluate(node, r); node == nil {
			return false
		}
	}
	return terminal
}

// longestReplacement returns the length of the longest rewrite rule matching
// the start of runes, and its replacement.
func (root *RuneNode) longestReplacement(runes []rune) (int, string) {
	node := root
	matched, replacement := 0, ""
	for idx, r := range runes {
		if node, _ = root.evaluate(node, r); node == nil {
			break
		}
		if node.replacement != nil {
			matched, replacement = idx+1, *node.replacement
		}
	}
	return matched, replacement
}

// Rewrite applies the rewrite rules to s, scanning left to right and always
// taking the longest rule at each position.
func (root *RuneNode) Rewrite(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	sb.Grow(len(s))
	for idx := 0; idx < len(runes); {
		if n, replacement := root.longestReplacement(runes[idx:]); n > 0 {
			sb.WriteString(replacement)
			idx += n
			continue
		}
		sb.WriteRune(runes[idx])
		idx++
	}
	return sb.String()
}

// Represent the tree as a string by traversing the tree, and using tree
// characters to represent the tree structure.
func (node *RuneNode) string(level int) string {
	if node == nil {
		return ""
	}
	s := string(node.rune)
	idx := 0
	if len(node.childs) == 1 {
		// Get the only element from the map recursively until we find a node
		// with more than one child.
		for r := range node.childs {
			s += node.childs[r].string(level)
		}
		return s
	}
	level += 1
	s += "\n"

	for r := range node.childs {
		childPrefix := strings.Repeat("| ", level-1)
		// If we're the last child, then we prepend with a tree terminator.
		if idx == len(node.childs)-1 {
			childPrefix += "└─"
		} else {
			childPrefix += "├─"
		}
		s += childPrefix + node.childs[r].string(level)
		idx += 1
	}
	return s
}

// Wrapper
func (node *RuneNode) String() string {
	return node.string(0)
}
