package manifest

import (
	"fmt"
	"slices"
)

// sortPackages orders package names so that every package comes after its
// dependencies. deps maps each package to its direct dependencies.
func sortPackages(deps map[string][]string) ([]string, error) {
	graph := make(map[string][]string) // package -> packages that depend on it
	inDegree := make(map[string]int)   // package -> dependency count

	for name := range deps {
		graph[name] = []string{}
		inDegree[name] = 0
	}

	// build graph
	for name, pkgDeps := range deps {
		for _, depName := range pkgDeps {
			if _, ok := deps[depName]; !ok {
				return nil, fmt.Errorf("package `%s` lists a non-existent dependency: `%s`", name, depName)
			}

			graph[depName] = append(graph[depName], name)
			inDegree[name]++
		}
	}

	// queue of packages with indegree of 0
	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	slices.Sort(queue)

	var sortedOrder []string

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		sortedOrder = append(sortedOrder, u)

		slices.Sort(graph[u])

		// for each package v that depends on u
		for _, v := range graph[u] {
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}

	// check cycles
	if len(sortedOrder) != len(deps) {
		var cycleNodes []string
		for name, degree := range inDegree {
			if degree > 0 {
				cycleNodes = append(cycleNodes, name)
			}
		}
		slices.Sort(cycleNodes)
		return nil, fmt.Errorf("dependency cycle detected involving packages: %v", cycleNodes)
	}

	return sortedOrder, nil
}
