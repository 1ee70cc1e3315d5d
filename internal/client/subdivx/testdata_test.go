package subdivx

// searchPageFixture mimics the markup of a subdivx results page.
// The second result has no download link, the third uses a relative one.
const searchPageFixture = `<html><body>
<div id="contenedor_izq">
<div id="menu_detalle_buscador"><a class="titulo_menu_izq" href="#">Subtitulos de Show Name 1x01</a></div>
<div id="buscador_detalle">
<div id="buscador_detalle_sub">Show.Name.S01E01.720p.HDTV.x264 <b>sincronizado</b> por <i>alguien</i></div>
<div id="buscador_detalle_sub_datos"><b>Downloads:</b> 1,234 <a rel="nofollow" target="new" href="http://www.subdivx.com/bajar.php?id=100&u=8">Bajar</a></div>
</div>
<div id="buscador_detalle">
<div id="buscador_detalle_sub">Show Name 1x01 1080p WEB-DL</div>
<div id="buscador_detalle_sub_datos"><a href="/otro.php">perfil</a></div>
</div>
<div id="buscador_detalle">
<div id="buscador_detalle_sub">Show Name 1x01 720p<script>var x = 1;</script></div>
<div id="buscador_detalle_sub_datos"><a rel="nofollow" target="new" href="/bajar.php?id=300&u=8">Bajar</a></div>
</div>
</div>
</body></html>`

// emptySearchPageFixture is a results page without result blocks.
const emptySearchPageFixture = `<html><body><div id="contenedor_izq">No encontramos resultados</div></body></html>`
