/*
 * annisgraph
 *
 * Copyright 2026 The annisgraph authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package corpus

import "github.com/krotik/annisgraph/gs"

/*
Component interns layer/name into this image's string pool and returns the
gs.Component key, so callers (the query front-end, ApplyUpdateLog) never
deal with raw stringpool.IDs when naming a component.
*/
func (img *Image) Component(t gs.ComponentType, layer, name string) gs.Component {
	return gs.Component{
		Type:  t,
		Layer: img.Pool.Add(layer),
		Name:  img.Pool.Add(name),
	}
}

/*
Storage resolves the back-end for a (type, layer, name) component, creating
one on first access.
*/
func (img *Image) Storage(t gs.ComponentType, layer, name string) gs.Storage {
	return img.Graph.Get(img.Component(t, layer, name))
}
