// Package domain models USGS earthquake events and the map graphics derived
// from them.
//
// # Data Sources
//
// Earthquakes come from the USGS real-time summary feeds, by default the
// weekly "all" feed at
// https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_week.geojson.
// Plate boundaries come from the PB2002 dataset published as GeoJSON at
// https://github.com/fraxen/tectonicplates.
//
// # USGS Feed Conventions
//
// Geometry:
//
//	Point with coordinates [longitude, latitude, depth].
//	Depth is in kilometres, positive down. Shallow events can report small
//	negative depths (above the reference ellipsoid).
//
// Properties consumed:
//
//	mag    magnitude, any scale (ml, md, mb, mww...). May be null.
//	place  human description, e.g. "10 km NE of Pahala, Hawaii". May be null.
//	time   event origin time in milliseconds since the Unix epoch (UTC).
//	url    event detail page.
//
// # Styling
//
// Marker radius is magnitude * 4 pixels, unclamped. Fill colour comes from a
// six-bucket depth table (see [DepthColor]) that is shared with the legend so
// the two can never disagree:
//
//	 > 90 km  #800026
//	 > 70 km  #BD0026
//	 > 50 km  #E31A1C
//	 > 30 km  #FC4E2A
//	 > 10 km  #FD8D3C
//	else      #FEB24C
//
// # Malformed Features
//
// A feature is skipped (and reported through [ErrMalformedFeature]) when its
// geometry is not a Point, has fewer than three coordinates, has non-finite or
// out-of-range coordinates, or when mag or time is null.
package domain
